package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/proyectos/internal/autosave"
	"github.com/jeanpaul/proyectos/internal/cli"
	"github.com/jeanpaul/proyectos/internal/config"
	"github.com/jeanpaul/proyectos/internal/export"
	"github.com/jeanpaul/proyectos/internal/logging"
	"github.com/jeanpaul/proyectos/internal/persist"
	"github.com/jeanpaul/proyectos/internal/project"
	"github.com/jeanpaul/proyectos/pkg/version"
)

func main() {
	configFlag := flag.String("config", "", "Path to a config.yaml file")
	dataFlag := flag.String("data", "", "Path to the projects JSON file")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("proyectos %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("config error: %s", err)
	}
	if *dataFlag != "" {
		cfg.DataFile = *dataFlag
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fatal("logging error: %s", err)
	}
	defer func() { _ = log.Sync() }()

	file := persist.NewFile(cfg.DataFile, log)

	// Handle subcommands
	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "list":
			cmdList(file)
		case "export":
			if len(args) < 2 {
				fatal("usage: proyectos export <file.xlsx|file.yaml|file.md>")
			}
			cmdExport(file, args[1])
		case "report":
			cmdReport(file)
		case "doctor":
			cmdDoctor(cfg, *configFlag, file)
		case "help":
			showHelp()
		default:
			fatal("unknown command %q (run 'proyectos help')", args[0])
		}
		return
	}

	launchInteractive(cfg, file, log)
}

func launchInteractive(cfg *config.Config, file *persist.File, log *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	// Ctrl-C cancels the current prompt instead of killing the process.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	store, writable := openStore(file, time.Now())

	// A data file that could not be moved aside must not be overwritten.
	var saveTo cli.Saver = file
	if !writable {
		saveTo = nil
		fmt.Fprintln(os.Stderr, cli.WarnStyle.Render("⚠️  Los cambios de esta sesión no se guardarán."))
	}

	saver := autosave.New(cfg.Autosave.Interval, func() error { return file.Save(store) }, log)
	if cfg.Autosave.Enabled && writable {
		saver.Start(ctx)
		fmt.Println(cli.HelpStyle.Render(fmt.Sprintf("  Autoguardado cada %s", cfg.Autosave.Interval)))
	}

	app := cli.New(store, saveTo, os.Stdin, os.Stdout, interrupts)
	runErr := app.Run(ctx)
	if runErr != nil {
		log.Info("interactive loop ended", zap.Error(runErr))
	}

	if !writable {
		return
	}
	if err := saver.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("❌ Error en el guardado final: "+err.Error()))
	} else {
		fmt.Println(cli.HelpStyle.Render("💾 Datos guardados en " + file.Path))
	}
}

// openStore loads the data file for the interactive session. Load failures
// are reported and the session continues with an empty store. writable is
// false when an unreadable file is still in place and must not be saved over.
func openStore(file *persist.File, now time.Time) (store *project.Store, writable bool) {
	store, res, err := file.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("❌ Error al cargar proyectos: "+err.Error()))
		if !res.Found {
			return store, false
		}
		dst, qerr := file.Quarantine(now)
		if qerr != nil {
			fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("❌ No se pudo apartar el archivo ilegible: "+qerr.Error()))
			return store, false
		}
		fmt.Fprintln(os.Stderr, cli.WarnStyle.Render("⚠️  Archivo ilegible movido a "+dst))
		return store, true
	}

	reportSkipped(res)
	if !res.Found {
		if err := store.Seed(); err != nil {
			fatal("seed projects: %s", err)
		}
		if err := file.Save(store); err != nil {
			fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("❌ Error al guardar proyectos de ejemplo: "+err.Error()))
		}
		fmt.Println(cli.HelpStyle.Render(fmt.Sprintf("  Primer uso: %d proyectos de ejemplo creados en %s", store.Len(), file.Path)))
		return store, true
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("📂 %d proyectos cargados desde %s", res.Loaded, file.Path)))
	return store, true
}

// loadOrFatal is the strict loader used by the non-interactive commands.
func loadOrFatal(file *persist.File) *project.Store {
	store, res, err := file.Load()
	if err != nil {
		fatal("%s", err)
	}
	reportSkipped(res)
	return store
}

func reportSkipped(res persist.LoadResult) {
	for _, s := range res.Skipped {
		fmt.Fprintln(os.Stderr, cli.WarnStyle.Render(
			fmt.Sprintf("⚠️  Proyecto #%d omitido: %s", s.Index+1, s.Err)))
	}
}

func cmdList(file *persist.File) {
	fmt.Println(cli.RenderTable(loadOrFatal(file).List()))
}

func cmdExport(file *persist.File, path string) {
	store := loadOrFatal(file)
	if err := export.ToFile(path, store); err != nil {
		fatal("export failed: %s", err)
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %d proyectos exportados a %s", store.Len(), path)))
}

func cmdReport(file *persist.File) {
	out, err := export.RenderReport(loadOrFatal(file).List(), 100)
	if err != nil {
		fatal("report failed: %s", err)
	}
	fmt.Print(out)
}

func cmdDoctor(cfg *config.Config, configFile string, file *persist.File) {
	fmt.Println(cli.TitleStyle.Render("  Comprobación del sistema"))
	fmt.Println()

	// Config file
	fmt.Printf("  %s %s ... ", cli.HelpStyle.Render("●"), cli.PromptStyle.Render("config"))
	switch {
	case configFile != "":
		fmt.Println(cli.SuccessStyle.Render("✓ " + configFile))
	default:
		fmt.Println(cli.HelpStyle.Render("- Buscando config.yaml en . y " + config.Dir()))
	}

	// Data file
	fmt.Printf("  %s %s ... ", cli.HelpStyle.Render("●"), cli.PromptStyle.Render("datos"))
	store, res, err := file.Load()
	switch {
	case err != nil:
		fmt.Println(cli.ErrorStyle.Render("✗ " + err.Error()))
	case !res.Found:
		fmt.Println(cli.HelpStyle.Render("- " + file.Path + " no existe (se creará al iniciar)"))
	case len(res.Skipped) > 0:
		fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("⚠ %d cargados, %d omitidos", res.Loaded, len(res.Skipped))))
		reportSkipped(res)
	default:
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %d proyectos, siguiente ID %d", res.Loaded, store.NextID())))
	}

	// Autosave
	fmt.Printf("  %s %s ... ", cli.HelpStyle.Render("●"), cli.PromptStyle.Render("autoguardado"))
	if cfg.Autosave.Enabled {
		fmt.Println(cli.SuccessStyle.Render("✓ cada " + cfg.Autosave.Interval.String()))
	} else {
		fmt.Println(cli.HelpStyle.Render("- desactivado"))
	}
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

func showHelp() {
	help := `
` + cli.TitleStyle.Render("proyectos") + ` - registro de proyectos de investigación astroinformática

` + cli.PromptStyle.Render("USO:") + `
  proyectos [flags]              Menú interactivo
  proyectos <comando> [args]     Ejecutar un comando

` + cli.PromptStyle.Render("COMANDOS:") + `
  list                           Mostrar la tabla de proyectos
  export <archivo>               Exportar a .xlsx, .yaml o .md
  report                         Informe por estado en la terminal
  doctor                         Comprobar configuración y datos
  help                           Mostrar esta ayuda

` + cli.PromptStyle.Render("FLAGS:") + `
  --config <archivo>             Usar un config.yaml concreto
  --data <archivo>               Usar otro archivo de datos JSON
  --version                      Mostrar la versión
  --help, -h                     Mostrar esta ayuda

` + cli.PromptStyle.Render("ENTORNO:") + `
  PROYECTOS_DATA_FILE            Archivo de datos (por defecto data/proyectos.json)
  PROYECTOS_AUTOSAVE_INTERVAL    Intervalo de autoguardado (por defecto 30s)
  PROYECTOS_LOG_LEVEL            debug, info, warn o error
`
	fmt.Println(help)
}
