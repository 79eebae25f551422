package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/syllabus"
)

// sunday is 2024-01-07, a Sunday.
var sunday = time.Date(2024, time.January, 7, 15, 30, 0, 0, time.UTC)

func makeSubject(id string, weight int, difficulties ...syllabus.Difficulty) syllabus.Subject {
	s := syllabus.Subject{ID: id, Name: id, Weight: weight}
	for i, d := range difficulties {
		s.Topics = append(s.Topics, syllabus.Topic{
			ID:         fmt.Sprintf("%s%d", id, i+1),
			Name:       fmt.Sprintf("%s topic %d", id, i+1),
			SubjectID:  id,
			Difficulty: d,
		})
	}
	return s
}

func medium(n int) []syllabus.Difficulty {
	out := make([]syllabus.Difficulty, n)
	for i := range out {
		out[i] = syllabus.DifficultyMedium
	}
	return out
}

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("b%d", n)
	}
}

func TestGenerate_Scenario(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("B", 10, syllabus.DifficultyMedium),
		makeSubject("A", 20, syllabus.DifficultyEasy, syllabus.DifficultyMedium, syllabus.DifficultyHard),
	}
	cfg := Config{
		StudyDays:      []time.Weekday{time.Monday, time.Wednesday},
		BlocksPerDay:   2,
		SubjectsPerDay: 2,
		BlockDuration:  45,
	}

	blocks, err := Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type want struct {
		topic    string
		date     string
		typ      BlockType
		duration int
	}
	wants := []want{
		{"A1", "2024-01-08", TypeTheory, 35},
		{"B1", "2024-01-08", TypeQuestions, 45},
		{"A2", "2024-01-10", TypeTheory, 45},
		{"A3", "2024-01-15", TypeQuestions, 55},
	}
	if len(blocks) != len(wants) {
		t.Fatalf("got %d blocks, want %d: %+v", len(blocks), len(wants), blocks)
	}
	for i, w := range wants {
		b := blocks[i]
		if b.TopicID != w.topic {
			t.Errorf("block %d topic = %s, want %s", i, b.TopicID, w.topic)
		}
		if got := DateKey(b.ScheduledFor); got != w.date {
			t.Errorf("block %d date = %s, want %s", i, got, w.date)
		}
		if b.Type != w.typ {
			t.Errorf("block %d type = %s, want %s", i, b.Type, w.typ)
		}
		if b.Duration != w.duration {
			t.Errorf("block %d duration = %d, want %d", i, b.Duration, w.duration)
		}
		if b.Status != StatusPending || b.CompletedAt != nil {
			t.Errorf("block %d should be pending without completedAt", i)
		}
	}

	perSubject := map[string]int{}
	for _, b := range blocks {
		perSubject[b.SubjectID]++
		if wd := b.ScheduledFor.Weekday(); wd != time.Monday && wd != time.Wednesday {
			t.Errorf("block %s scheduled on %s", b.ID, wd)
		}
	}
	if perSubject["A"] > 3 || perSubject["B"] > 1 {
		t.Errorf("topic exhaustion violated: %v", perSubject)
	}
}

func TestGenerate_Determinism(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("X", 5, medium(6)...),
		makeSubject("Y", 15, syllabus.DifficultyHard, syllabus.DifficultyEasy, syllabus.DifficultyMedium),
		makeSubject("Z", 15, medium(4)...),
	}
	cfg := Config{
		StudyDays:      []time.Weekday{time.Tuesday, time.Thursday, time.Saturday},
		BlocksPerDay:   3,
		SubjectsPerDay: 2,
		BlockDuration:  50,
	}

	first, err := Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		a.ID, b.ID = "", ""
		if a.SubjectID != b.SubjectID || a.TopicID != b.TopicID || a.Duration != b.Duration ||
			a.Type != b.Type || a.Status != b.Status || !a.ScheduledFor.Equal(b.ScheduledFor) {
			t.Errorf("block %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].ID == second[0].ID {
		t.Error("expected fresh IDs on each run")
	}
}

func TestGenerate_WeekdayConformance(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("A", 10, medium(40)...),
		makeSubject("B", 10, medium(40)...),
	}
	for mask := 1; mask < 1<<7; mask += 9 {
		var days []time.Weekday
		for d := 0; d < 7; d++ {
			if mask&(1<<d) != 0 {
				days = append(days, time.Weekday(d))
			}
		}
		cfg := Config{StudyDays: days, BlocksPerDay: 2, SubjectsPerDay: 1, BlockDuration: 45}
		blocks, err := Generate(subjects, cfg, sunday)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, b := range blocks {
			if !cfg.IsStudyDay(b.ScheduledFor.Weekday()) {
				t.Errorf("mask %07b: block on %s", mask, b.ScheduledFor.Weekday())
			}
			if b.ScheduledFor.Before(StartOfDay(sunday)) || !b.ScheduledFor.Before(StartOfDay(sunday).AddDate(0, 0, HorizonDays)) {
				t.Errorf("block outside horizon: %s", b.ScheduledFor)
			}
		}
		wantDays := 0
		for i := 0; i < HorizonDays; i++ {
			if cfg.IsStudyDay(sunday.AddDate(0, 0, i).Weekday()) {
				wantDays++
			}
		}
		if len(blocks) != wantDays*2 {
			t.Errorf("mask %07b: got %d blocks, want %d", mask, len(blocks), wantDays*2)
		}
	}
}

func TestGenerate_TopicOrderAndExhaustion(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("A", 30, medium(5)...),
		makeSubject("B", 20, medium(2)...),
		makeSubject("C", 10),
	}
	cfg := Config{StudyDays: DefaultStudyDays(), BlocksPerDay: 4, SubjectsPerDay: 3, BlockDuration: 45}

	blocks, err := Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := map[string]int{}
	for _, s := range subjects {
		next[s.ID] = 0
	}
	for _, b := range blocks {
		want := fmt.Sprintf("%s%d", b.SubjectID, next[b.SubjectID]+1)
		if b.TopicID != want {
			t.Errorf("topic %s scheduled out of order, want %s", b.TopicID, want)
		}
		next[b.SubjectID]++
	}
	if next["A"] != 5 || next["B"] != 2 || next["C"] != 0 {
		t.Errorf("per-subject counts = %v, want A=5 B=2 C=0", next)
	}
}

func TestGenerate_RotationWindow(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("A", 30, medium(10)...),
		makeSubject("B", 20, medium(10)...),
		makeSubject("C", 10, medium(10)...),
	}
	cfg := Config{StudyDays: []time.Weekday{time.Monday}, BlocksPerDay: 1, SubjectsPerDay: 1, BlockDuration: 45}

	blocks, err := Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"A", "B", "C", "A"}
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, w := range want {
		if blocks[i].SubjectID != w {
			t.Errorf("study day %d subject = %s, want %s", i, blocks[i].SubjectID, w)
		}
	}
}

func TestGenerate_WindowLargerThanSubjectCount(t *testing.T) {
	subjects := []syllabus.Subject{makeSubject("A", 10, medium(4)...)}
	cfg := Config{StudyDays: []time.Weekday{time.Monday}, BlocksPerDay: 3, SubjectsPerDay: 3, BlockDuration: 45}

	g := &Generator{NewID: sequentialIDs()}
	blocks, err := g.Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	for i := 0; i < 3; i++ {
		if DateKey(blocks[i].ScheduledFor) != "2024-01-08" {
			t.Errorf("block %d should be on the first Monday", i)
		}
	}
	if DateKey(blocks[3].ScheduledFor) != "2024-01-15" {
		t.Errorf("last block on %s, want 2024-01-15", DateKey(blocks[3].ScheduledFor))
	}
	if blocks[0].ID != "b1" || blocks[3].ID != "b4" {
		t.Errorf("IDs not taken from IDFunc: %s, %s", blocks[0].ID, blocks[3].ID)
	}
}

func TestGenerate_EmptyInputs(t *testing.T) {
	cfg := DefaultConfig()

	blocks, err := Generate(nil, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocks == nil || len(blocks) != 0 {
		t.Errorf("Generate(nil) = %v, want empty non-nil slice", blocks)
	}

	cfg.StudyDays = nil
	blocks, err = Generate([]syllabus.Subject{makeSubject("A", 10, medium(3)...)}, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("no study days should give empty schedule, got %d", len(blocks))
	}

	blocks, err = Generate([]syllabus.Subject{makeSubject("A", 10)}, DefaultConfig(), sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("topic-less subject should give empty schedule, got %d", len(blocks))
	}
}

func TestGenerate_RejectsInvalidConfig(t *testing.T) {
	bad := []Config{
		{StudyDays: DefaultStudyDays(), BlocksPerDay: 0, SubjectsPerDay: 1, BlockDuration: 45},
		{StudyDays: DefaultStudyDays(), BlocksPerDay: 1, SubjectsPerDay: 0, BlockDuration: 45},
		{StudyDays: DefaultStudyDays(), BlocksPerDay: 1, SubjectsPerDay: 1, BlockDuration: -5},
		{StudyDays: []time.Weekday{9}, BlocksPerDay: 1, SubjectsPerDay: 1, BlockDuration: 45},
	}
	for i, cfg := range bad {
		if _, err := Generate([]syllabus.Subject{makeSubject("A", 1, medium(1)...)}, cfg, sunday); err == nil {
			t.Errorf("config %d: expected error", i)
		}
	}
}

func TestGenerate_DoesNotMutateInput(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("low", 1, medium(2)...),
		makeSubject("high", 99, medium(2)...),
	}
	if _, err := Generate(subjects, DefaultConfig(), sunday); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subjects[0].ID != "low" || subjects[1].ID != "high" {
		t.Error("input slice was reordered")
	}
}

func TestGenerate_StableTies(t *testing.T) {
	subjects := []syllabus.Subject{
		makeSubject("first", 10, medium(3)...),
		makeSubject("second", 10, medium(3)...),
	}
	cfg := Config{StudyDays: []time.Weekday{time.Monday}, BlocksPerDay: 2, SubjectsPerDay: 2, BlockDuration: 45}
	blocks, err := Generate(subjects, cfg, sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocks[0].SubjectID != "first" || blocks[1].SubjectID != "second" {
		t.Errorf("tie order not preserved: %s, %s", blocks[0].SubjectID, blocks[1].SubjectID)
	}
}

func TestGenerate_ReferenceDayIncluded(t *testing.T) {
	monday := time.Date(2024, time.January, 8, 22, 0, 0, 0, time.UTC)
	subjects := []syllabus.Subject{makeSubject("A", 10, medium(1)...)}
	cfg := Config{StudyDays: []time.Weekday{time.Monday}, BlocksPerDay: 1, SubjectsPerDay: 1, BlockDuration: 45}

	blocks, err := Generate(subjects, cfg, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if !blocks[0].ScheduledFor.Equal(time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ScheduledFor = %s, want midnight of reference day", blocks[0].ScheduledFor)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    syllabus.Difficulty
		base int
		want int
	}{
		{syllabus.DifficultyMedium, 45, 45},
		{syllabus.DifficultyHard, 45, 55},
		{syllabus.DifficultyEasy, 45, 35},
		{syllabus.DifficultyEasy, 35, 30},
		{syllabus.DifficultyEasy, 20, 30},
		{syllabus.DifficultyHard, 20, 30},
	}
	for _, tt := range tests {
		if got := Duration(tt.d, tt.base); got != tt.want {
			t.Errorf("Duration(%s, %d) = %d, want %d", tt.d, tt.base, got, tt.want)
		}
	}
}

func TestGenerate_RevisionNeverEmitted(t *testing.T) {
	subjects := []syllabus.Subject{makeSubject("A", 10, medium(30)...)}
	blocks, err := Generate(subjects, DefaultConfig(), sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, b := range blocks {
		if b.Type == TypeRevision {
			t.Fatalf("block %d has revision type", i)
		}
		want := TypeTheory
		if i%2 == 1 {
			want = TypeQuestions
		}
		if b.Type != want {
			t.Errorf("block %d type = %s, want %s", i, b.Type, want)
		}
	}
}
