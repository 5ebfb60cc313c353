// Package cli implements the interactive project menu.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jeanpaul/proyectos/internal/project"
)

// Saver persists the store. *persist.File satisfies it.
type Saver interface {
	Save(*project.Store) error
}

// App is the menu loop over one store.
type App struct {
	store *project.Store
	saver Saver
	in    *lineReader
	out   io.Writer
}

// New builds an App. Interrupts may be nil; when set, a signal received
// while a prompt waits cancels the current operation.
func New(store *project.Store, saver Saver, in io.Reader, out io.Writer, interrupts <-chan os.Signal) *App {
	return &App{
		store: store,
		saver: saver,
		in:    newLineReader(in, interrupts),
		out:   out,
	}
}

type menuEntry struct {
	key    string
	label  string
	action func(context.Context) error
}

func (a *App) menu() []menuEntry {
	return []menuEntry{
		{"1", "📋 Listar proyectos", a.listProjects},
		{"2", "➕ Añadir nuevo proyecto", a.addProject},
		{"3", "✏️  Editar proyecto", a.editProject},
		{"4", "🗑️  Eliminar proyecto", a.deleteProject},
		{"5", "🔄 Cambiar estado de un proyecto", a.changeStatus},
		{"6", "🚪 Salir", nil},
	}
}

// Run shows the menu until the user exits, input ends, an interrupt
// arrives at the menu prompt, or ctx is done. Final persistence is the
// caller's job.
func (a *App) Run(ctx context.Context) error {
	entries := a.menu()
	for {
		a.showMenu(entries)
		choice, err := a.prompt(ctx, fmt.Sprintf("Seleccione una opción [1-%d]: ", len(entries)))
		if errors.Is(err, ErrRead) {
			a.fail(err.Error())
			continue
		}
		if err != nil {
			a.goodbye()
			if errors.Is(err, ErrCancelled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		entry, ok := findEntry(entries, choice)
		if !ok {
			a.fail(fmt.Sprintf("Opción inválida. Por favor, seleccione un número entre 1 y %d.", len(entries)))
			continue
		}
		if entry.action == nil {
			a.goodbye()
			return nil
		}

		err = entry.action(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrCancelled):
			a.warn("Operación cancelada.")
		case errors.Is(err, io.EOF):
			a.goodbye()
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			a.goodbye()
			return err
		default:
			a.fail(err.Error())
		}
	}
}

func findEntry(entries []menuEntry, key string) (menuEntry, bool) {
	for _, e := range entries {
		if e.key == key {
			return e, true
		}
	}
	return menuEntry{}, false
}

func (a *App) showMenu(entries []menuEntry) {
	fmt.Fprintln(a.out, header("🔬 SISTEMA DE GESTIÓN DE PROYECTOS DE INVESTIGACIÓN ASTROINFORMÁTICA"))
	fmt.Fprintln(a.out)
	for _, e := range entries {
		fmt.Fprintln(a.out, MenuItemStyle.Render(e.key+". "+e.label))
	}
	fmt.Fprintln(a.out, "\n"+SeparatorStyle.Render(strings.Repeat("-", ruleWidth)))
}

func (a *App) listProjects(context.Context) error {
	fmt.Fprintln(a.out, header("📋 LISTA DE PROYECTOS DE INVESTIGACIÓN"))
	fmt.Fprintln(a.out, RenderTable(a.store.List()))
	return nil
}

func (a *App) addProject(ctx context.Context) error {
	fmt.Fprintln(a.out, header("➕ AÑADIR NUEVO PROYECTO"))

	title, err := a.prompt(ctx, "\nTítulo del proyecto: ")
	if err != nil {
		return err
	}
	if title == "" {
		return errors.New("el título no puede estar vacío")
	}

	investigator, err := a.prompt(ctx, "Investigador principal: ")
	if err != nil {
		return err
	}
	if investigator == "" {
		return errors.New("el investigador principal no puede estar vacío")
	}

	raw, err := a.prompt(ctx, "Fecha de inicio (dd/mm/aaaa) [Enter para hoy]: ")
	if err != nil {
		return err
	}
	date := project.Today()
	if raw != "" {
		if date, err = project.ParseInputDate(raw); err != nil {
			return errors.New("formato de fecha incorrecto. Use dd/mm/aaaa")
		}
	}

	fmt.Fprint(a.out, statusMenu())
	raw, err = a.prompt(ctx, "Seleccione estado [1-4, Enter para 'En planificación']: ")
	if err != nil {
		return err
	}
	status, ok := project.StatusFromDigit(raw)
	if !ok {
		status = project.StatusPlanning
	}

	p, err := a.store.Add(title, investigator, date, status)
	if err != nil {
		return err
	}
	a.succeed(fmt.Sprintf("Proyecto añadido exitosamente con ID: %d", p.ID))
	fmt.Fprintln(a.out, "   "+p.String())
	a.persist()
	return nil
}

func (a *App) editProject(ctx context.Context) error {
	fmt.Fprintln(a.out, header("✏️  EDITAR PROYECTO"))

	p, err := a.askProject(ctx, "\nID del proyecto a editar: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nProyecto actual:\n   "+p.String())
	fmt.Fprintln(a.out, HelpStyle.Render("Deje un campo vacío para mantener su valor actual."))

	var patch project.Patch
	if patch.Title, err = a.prompt(ctx, fmt.Sprintf("\nNuevo título [%s]: ", p.Title)); err != nil {
		return err
	}
	if patch.Investigator, err = a.prompt(ctx, fmt.Sprintf("Nuevo investigador principal [%s]: ", p.Investigator)); err != nil {
		return err
	}

	raw, err := a.prompt(ctx, fmt.Sprintf("Nueva fecha de inicio (dd/mm/aaaa) [%s]: ", p.StartDate.Display()))
	if err != nil {
		return err
	}
	if raw != "" {
		d, err := project.ParseInputDate(raw)
		if err != nil {
			return errors.New("formato de fecha incorrecto. Use dd/mm/aaaa")
		}
		patch.StartDate = &d
	}

	fmt.Fprint(a.out, statusMenu())
	raw, err = a.prompt(ctx, fmt.Sprintf("Nuevo estado [1-4, Enter para mantener '%s']: ", p.Status))
	if err != nil {
		return err
	}
	if raw != "" {
		if s, ok := project.StatusFromDigit(raw); ok {
			patch.Status = s
		} else {
			a.warn("Opción de estado inválida, se mantiene el estado actual.")
		}
	}

	if patch.Empty() {
		a.warn("No se realizaron cambios.")
		return nil
	}
	updated, err := a.store.Update(p.ID, patch)
	if err != nil {
		return err
	}
	a.succeed("Proyecto actualizado exitosamente.")
	fmt.Fprintln(a.out, "   "+updated.String())
	a.persist()
	return nil
}

func (a *App) deleteProject(ctx context.Context) error {
	fmt.Fprintln(a.out, header("🗑️  ELIMINAR PROYECTO"))

	p, err := a.askProject(ctx, "\nID del proyecto a eliminar: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\n   "+p.String())

	answer, err := a.prompt(ctx, "¿Confirma la eliminación? (s/n): ")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "s", "si", "sí", "y", "yes":
	default:
		a.warn("Eliminación cancelada.")
		return nil
	}

	if _, err := a.store.Remove(p.ID); err != nil {
		return err
	}
	a.succeed(fmt.Sprintf("Proyecto %d eliminado.", p.ID))
	a.persist()
	return nil
}

func (a *App) changeStatus(ctx context.Context) error {
	fmt.Fprintln(a.out, header("🔄 CAMBIAR ESTADO"))

	p, err := a.askProject(ctx, "\nID del proyecto: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\n   "+p.String())

	fmt.Fprint(a.out, statusMenu())
	raw, err := a.prompt(ctx, "Nuevo estado [1-4]: ")
	if err != nil {
		return err
	}
	status, ok := project.StatusFromDigit(raw)
	if !ok {
		a.warn("Opción de estado inválida, se mantiene el estado actual.")
		return nil
	}

	updated, err := a.store.SetStatus(p.ID, status)
	if err != nil {
		return err
	}
	a.succeed(fmt.Sprintf("Estado actualizado: %s", updated.Status))
	a.persist()
	return nil
}

// askProject reads an id and looks it up.
func (a *App) askProject(ctx context.Context, label string) (project.Project, error) {
	if a.store.Len() == 0 {
		return project.Project{}, errors.New("no hay proyectos registrados")
	}
	raw, err := a.prompt(ctx, label)
	if err != nil {
		return project.Project{}, err
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return project.Project{}, fmt.Errorf("ID inválido %q: debe ser un número entero", raw)
	}
	p, err := a.store.Find(id)
	if err != nil {
		return project.Project{}, fmt.Errorf("no existe un proyecto con ID %d", id)
	}
	return p, nil
}

func (a *App) prompt(ctx context.Context, label string) (string, error) {
	if strings.HasPrefix(label, "\n") {
		fmt.Fprintln(a.out)
		label = strings.TrimPrefix(label, "\n")
	}
	fmt.Fprint(a.out, PromptStyle.Render(label))
	return a.in.next(ctx)
}

// persist saves after a mutation. Failures are reported and the
// in-memory store stays authoritative.
func (a *App) persist() {
	if a.saver == nil {
		return
	}
	if err := a.saver.Save(a.store); err != nil {
		a.fail("No se pudieron guardar los cambios: " + err.Error())
		return
	}
	fmt.Fprintln(a.out, HelpStyle.Render("💾 Cambios guardados."))
}

func (a *App) succeed(msg string) {
	fmt.Fprintln(a.out, "\n"+SuccessStyle.Render("✅ "+msg))
}

func (a *App) warn(msg string) {
	fmt.Fprintln(a.out, "\n"+WarnStyle.Render("⚠️  "+msg))
}

func (a *App) fail(msg string) {
	fmt.Fprintln(a.out, "\n"+ErrorStyle.Render("❌ Error: "+msg))
}

func (a *App) goodbye() {
	fmt.Fprintln(a.out, "\n"+TitleStyle.Render("👋 ¡Hasta luego! Gracias por usar el sistema."))
}
