package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
)

func openTestSQLite(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func openTestFiles(t *testing.T) *FileStore {
	t.Helper()
	s, err := OpenFiles(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	return s
}

func sampleQuestions(t *testing.T) []*question.Question {
	t.Helper()
	free, err := question.NewFreeForm("What is the capital of France?", "Paris")
	if err != nil {
		t.Fatal(err)
	}
	free.ID = 1
	choice, err := question.NewMultipleChoice("2 + 2 = ?", []string{"3", "4", "5"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	choice.ID = 2
	choice.Enabled = false
	return []*question.Question{free, choice}
}

func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"files":  openTestFiles(t),
		"sqlite": openTestSQLite(t),
	}
}

func TestBackends_EmptyOnFirstOpen(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			qs, skipped, err := b.LoadQuestions(ctx)
			if err != nil {
				t.Fatalf("load questions: %v", err)
			}
			if len(qs) != 0 || len(skipped) != 0 {
				t.Errorf("got %d questions, %d skipped; want none", len(qs), len(skipped))
			}
			res, err := b.Results(ctx)
			if err != nil {
				t.Fatalf("results: %v", err)
			}
			if len(res) != 0 {
				t.Errorf("got %d results, want 0", len(res))
			}
		})
	}
}

func TestBackends_QuestionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleQuestions(t)
			if err := b.SaveQuestions(ctx, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, skipped, err := b.LoadQuestions(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(skipped) != 0 {
				t.Fatalf("unexpected skipped lines: %v", record.Lines(skipped))
			}
			if len(got) != len(want) {
				t.Fatalf("got %d questions, want %d", len(got), len(want))
			}
			for i := range want {
				if record.FormatQuestion(got[i]) != record.FormatQuestion(want[i]) {
					t.Errorf("question %d = %q, want %q", i,
						record.FormatQuestion(got[i]), record.FormatQuestion(want[i]))
				}
			}

			// A second save replaces rather than appends.
			if err := b.SaveQuestions(ctx, want[:1]); err != nil {
				t.Fatalf("save again: %v", err)
			}
			got, _, err = b.LoadQuestions(ctx)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if len(got) != 1 {
				t.Errorf("got %d questions after replace, want 1", len(got))
			}
		})
	}
}

func TestBackends_StatsSaveAndClear(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			qs := sampleQuestions(t)
			qs[0].Record(question.ModePractice, true)
			qs[0].Record(question.ModeTest, false)

			entries := []record.Stat{record.StatOf(qs[0]), record.StatOf(qs[1])}
			if err := b.SaveStats(ctx, entries); err != nil {
				t.Fatalf("save stats: %v", err)
			}
			got, _, err := b.LoadStats(ctx)
			if err != nil {
				t.Fatalf("load stats: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d stats, want 2", len(got))
			}
			if got[0].Practice != (question.Counter{Shown: 1, Correct: 1}) {
				t.Errorf("practice = %+v", got[0].Practice)
			}
			if got[0].Test != (question.Counter{Shown: 1}) {
				t.Errorf("test = %+v", got[0].Test)
			}

			if err := b.ClearStats(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			got, _, err = b.LoadStats(ctx)
			if err != nil {
				t.Fatalf("load after clear: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("got %d stats after clear, want 0", len(got))
			}
		})
	}
}

func TestBackends_ResultsAppendInOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				r := record.Result{
					Time:       base.Add(time.Duration(i) * time.Hour),
					Percentage: float64(i) * 20,
					Correct:    i,
					Total:      5,
				}
				if err := b.AppendResult(ctx, r); err != nil {
					t.Fatalf("append %d: %v", i, err)
				}
			}
			got, err := b.Results(ctx)
			if err != nil {
				t.Fatalf("results: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("got %d results, want 3", len(got))
			}
			for i, r := range got {
				if r.Correct != i || r.Total != 5 {
					t.Errorf("result %d = %d/%d", i, r.Correct, r.Total)
				}
				if !r.Time.Equal(base.Add(time.Duration(i) * time.Hour)) {
					t.Errorf("result %d time = %v", i, r.Time)
				}
			}
		})
	}
}

func TestFileStore_SkipsMalformedLines(t *testing.T) {
	s := openTestFiles(t)
	content := strings.Join([]string{
		"1|True|Capital of France?|Paris",
		"not a record",
		"2|True|Pick one|A,B|B",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(s.Dir(), QuestionsFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	qs, skipped, err := s.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(qs) != 2 {
		t.Errorf("got %d questions, want 2", len(qs))
	}
	if lines := record.Lines(skipped); len(lines) != 1 || lines[0] != 2 {
		t.Errorf("skipped lines = %v, want [2]", lines)
	}
}

func TestFileStore_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := openTestFiles(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.SaveQuestions(ctx, sampleQuestions(t)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFileStore_ResultsFileFormat(t *testing.T) {
	s := openTestFiles(t)
	r := record.Result{
		Time:       time.Date(2024, 5, 17, 14, 3, 9, 0, time.Local),
		Percentage: 80,
		Correct:    4,
		Total:      5,
	}
	if err := s.AppendResult(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir(), ResultsFile))
	if err != nil {
		t.Fatal(err)
	}
	want := "2024-05-17 14:03:09 | Score: 80.00% | Questions: 4/5\n"
	if string(data) != want {
		t.Errorf("results file = %q, want %q", data, want)
	}
}

func TestSQLite_PragmasApplied(t *testing.T) {
	s := openTestSQLite(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSQLite_ResultIDs(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.AppendResult(ctx, record.Result{ID: "run-1", Time: now, Total: 5}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendResult(ctx, record.Result{Time: now, Total: 5}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Results(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != "run-1" {
		t.Errorf("first id = %q, want run-1", got[0].ID)
	}
	if got[1].ID == "" {
		t.Error("expected generated id for second result")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mongo", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("LEARNTOOL_HOME", "/custom/home")
	got, err := DefaultDataDir()
	if err != nil || got != "/custom/home" {
		t.Errorf("DefaultDataDir() = %q, %v", got, err)
	}

	t.Setenv("LEARNTOOL_HOME", "")
	t.Setenv("XDG_DATA_HOME", "/xdg")
	got, err = DefaultDataDir()
	if err != nil || got != filepath.Join("/xdg", "learntool") {
		t.Errorf("DefaultDataDir() = %q, %v", got, err)
	}
}

func TestSQLite_SaveSnapshotIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	qs := sampleQuestions(t)
	qs[0].Record(question.ModePractice, true)
	stats := []record.Stat{record.StatOf(qs[0]), record.StatOf(qs[1])}
	if err := s.SaveSnapshot(ctx, qs, stats); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	// A repeated statistics id violates the primary key after the questions
	// were already replaced inside the transaction.
	extra, err := question.NewFreeForm("Capital of Peru?", "Lima")
	if err != nil {
		t.Fatal(err)
	}
	extra.ID = 3
	next := append(qs, extra)
	bad := []record.Stat{record.StatOf(qs[0]), record.StatOf(qs[0])}
	if err := s.SaveSnapshot(ctx, next, bad); err == nil {
		t.Fatal("expected duplicate statistics id to fail")
	}

	gotQs, _, err := s.LoadQuestions(ctx)
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(gotQs) != 2 {
		t.Errorf("got %d questions after failed save, want 2", len(gotQs))
	}
	gotStats, _, err := s.LoadStats(ctx)
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if len(gotStats) != 2 || gotStats[0].Practice != (question.Counter{Shown: 1, Correct: 1}) {
		t.Errorf("statistics changed after failed save: %+v", gotStats)
	}
}
