package persist

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeanpaul/proyectos/internal/project"
)

func day(y int, m time.Month, d int) project.Date {
	return project.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.Local))
}

func assertSameProjects(t *testing.T, want, got []project.Project) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.Equal(t, want[i].Investigator, got[i].Investigator)
		assert.Equal(t, want[i].StartDate.String(), got[i].StartDate.String())
		assert.Equal(t, want[i].Status, got[i].Status)
	}
}

func TestFile_LoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "nope.json"), nil)

	s, res, err := f.Load()
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 0, res.Loaded)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.NextID())
}

func TestFile_EmptyRoundTrip(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "data", "proyectos.json"), nil)

	require.NoError(t, f.Save(project.NewStore()))

	s, res, err := f.Load()
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.NextID())
}

func TestFile_RoundTripWithGaps(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "proyectos.json"), nil)

	want := []project.Project{
		{ID: 1, Title: "Supernovas", Investigator: "Dr. Juan Pérez", StartDate: day(2025, 1, 15), Status: project.StatusInProgress},
		{ID: 2, Title: "Galaxias <ML>", Investigator: "Dra. María González", StartDate: day(2025, 3, 1), Status: project.StatusPlanning},
		{ID: 5, Title: "Exoplanetas", Investigator: "Dr. Ana Ruiz",
			StartDate: project.NewDate(time.Date(2024, 7, 9, 13, 45, 0, 250000000, time.Local)), Status: project.StatusCancelled},
	}
	src := project.NewStore()
	src.Restore(6, want)
	require.NoError(t, f.Save(src))

	s, res, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Loaded)
	assert.Empty(t, res.Skipped)
	assertSameProjects(t, want, s.List())
	assert.Greater(t, s.NextID(), 5)
}

func TestFile_SaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "proyectos.json"), nil)

	src := project.NewStore()
	require.NoError(t, src.Seed())
	_, err := src.Add("Ondas gravitacionales", "Dr. Kip", project.Today(), project.StatusCompleted)
	require.NoError(t, err)
	require.NoError(t, f.Save(src))
	first, err := os.ReadFile(f.Path)
	require.NoError(t, err)

	loaded, _, err := f.Load()
	require.NoError(t, err)
	require.NoError(t, f.Save(loaded))
	second, err := os.ReadFile(f.Path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestFile_SkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proyectos.json")
	raw := `{
  "contador_id": 9,
  "proyectos": [
    {"id": 1, "titulo": "A", "investigador_principal": "Dr. A", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"},
    {"id": 2, "titulo": "B", "investigador_principal": "Dr. B", "fecha_inicio": "no es fecha", "estado": "En curso"},
    {"id": 3, "titulo": "C", "investigador_principal": "Dr. C", "fecha_inicio": "2025-02-01T00:00:00", "estado": "Completado"},
    {"id": 4, "titulo": "D", "investigador_principal": "Dr. D", "fecha_inicio": "2025-03-01T00:00:00", "estado": "Cancelado"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFile(path, zap.New(core))

	s, res, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Loaded)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 1, res.Skipped[0].Index)

	ids := []int{}
	for _, p := range s.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 3, 4}, ids)
	assert.Equal(t, 9, s.NextID())
	assert.Equal(t, 1, logs.FilterMessage("skipping malformed project").Len())
}

func TestDecode_RecordShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"missing title", `{"id": 1, "investigador_principal": "X", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"}`},
		{"empty investigator", `{"id": 1, "titulo": "T", "investigador_principal": "", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"}`},
		{"string id", `{"id": "1", "titulo": "T", "investigador_principal": "X", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"}`},
		{"unknown status", `{"id": 1, "titulo": "T", "investigador_principal": "X", "fecha_inicio": "2025-01-15T00:00:00", "estado": "Archivado"}`},
		{"not an object", `"hola"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"contador_id": 2, "proyectos": [` + tt.record + `]}`
			s, res, err := Decode([]byte(doc), nil)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Loaded)
			assert.Len(t, res.Skipped, 1)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestDecode_DuplicateIDSkipped(t *testing.T) {
	doc := `{"contador_id": 3, "proyectos": [
		{"id": 1, "titulo": "A", "investigador_principal": "X", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"},
		{"id": 1, "titulo": "B", "investigador_principal": "Y", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"}
	]}`
	s, res, err := Decode([]byte(doc), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	assert.Len(t, res.Skipped, 1)
	p, err := s.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "A", p.Title)
}

func TestDecode_MissingCounterDefaults(t *testing.T) {
	s, _, err := Decode([]byte(`{"proyectos": []}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.NextID())

	s, _, err = Decode([]byte(`{"proyectos": [
		{"id": 4, "titulo": "A", "investigador_principal": "X", "fecha_inicio": "2025-01-15T00:00:00", "estado": "En curso"}
	]}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, s.NextID())
}

func TestFile_LoadCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proyectos.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, res, err := NewFile(path, nil).Load()
	assert.Error(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 0, s.Len())
}

func TestEncode_Shape(t *testing.T) {
	s := project.NewStore()
	_, err := s.Add("T", "I", day(2025, 1, 15), project.StatusPlanning)
	require.NoError(t, err)

	data, err := Encode(s)
	require.NoError(t, err)
	want := `{
  "contador_id": 2,
  "proyectos": [
    {
      "id": 1,
      "titulo": "T",
      "investigador_principal": "I",
      "fecha_inicio": "2025-01-15T00:00:00",
      "estado": "En planificación"
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestFile_Quarantine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proyectos.json")
	require.NoError(t, os.WriteFile(path, []byte("{roto"), 0644))
	f := NewFile(path, nil)

	_, _, err := f.Load()
	require.Error(t, err)

	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
	dst, err := f.Quarantine(now)
	require.NoError(t, err)
	assert.Equal(t, path+".corrupt-20261018-093000", dst)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "{roto", string(data))
}

func TestFile_SaveWaitingOnLockWritesCurrentState(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "proyectos.json"), nil)
	store := project.NewStore()
	require.NoError(t, store.Seed())

	// A background save queues behind the writer lock while the store
	// changes and a foreground save runs.
	f.mu.Lock()
	background := make(chan error, 1)
	go func() { background <- f.Save(store) }()
	time.Sleep(20 * time.Millisecond)

	_, err := store.Add("Ondas gravitacionales", "Dr. Kip", project.Today(), project.StatusInProgress)
	require.NoError(t, err)
	f.mu.Unlock()

	require.NoError(t, f.Save(store))
	require.NoError(t, <-background)

	loaded, _, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
	assert.Equal(t, store.NextID(), loaded.NextID())
}

func TestFile_ConcurrentSavesEndWithLatestState(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "proyectos.json"), nil)
	store := project.NewStore()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					assert.NoError(t, f.Save(store))
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		_, err := store.Add("Proyecto", "Dra. X", project.Today(), project.StatusPlanning)
		require.NoError(t, err)
		require.NoError(t, f.Save(store))

		loaded, _, err := f.Load()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, loaded.Len(), i+1)
	}
	close(stop)
	wg.Wait()

	loaded, _, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Len(), loaded.Len())
}
