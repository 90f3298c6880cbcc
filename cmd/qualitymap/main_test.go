package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/qualitymap/internal/config"
	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/notify"
	"github.com/dshills/qualitymap/internal/platform/logger"
	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

const snapshotYAML = `
quality_map:
  id: 7
  team_id: 2
  employee: Anna
  chat_count: 3
  call_count: 1
  chat_ids: ["abc", "def", ""]
  call_ids: ["call-1"]
  deductions:
    - {criteria_id: 1, chat_id: abc, deduction: 30, comment: late}
  call_deductions:
    - {criteria_id: 2, call_id: call-1, deduction: 5, comment: hold}
criteria:
  - {id: 1, name: Greeting, is_active: true, is_global: true, category: {id: 3, name: Сервис}}
  - {id: 2, name: Tone, is_active: true, team_id: 2}
`

type testApp struct {
	*app
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	recorder *notify.Recorder
	dir      string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("QUALITYMAP_LOG_MODE", "nop")
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	rec := &notify.Recorder{}
	a.notify = rec
	return &testApp{app: a, out: &out, errOut: &errOut, recorder: rec, dir: dir}
}

func (ta *testApp) useMock(m *gateway.MockGateway) {
	ta.openGateway = func(context.Context, *config.Config, *logger.Logger) (gateway.Gateway, func() error, error) {
		return m, func() error { return nil }, nil
	}
}

func (ta *testApp) run(args ...string) error {
	root := newRootCmd(ta.app)
	root.SetArgs(args)
	return root.Execute()
}

func writeSnapshot(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "snapshot.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitGeneric
}

func TestParseKinds(t *testing.T) {
	withCalls := &qualitymap.QualityMap{ChatCount: 1, CallCount: 2}
	chatOnly := &qualitymap.QualityMap{ChatCount: 1}
	tests := []struct {
		flag    string
		q       *qualitymap.QualityMap
		want    []scorecard.ColumnKind
		wantErr bool
	}{
		{"all", withCalls, []scorecard.ColumnKind{scorecard.KindChat, scorecard.KindCall}, false},
		{"", chatOnly, []scorecard.ColumnKind{scorecard.KindChat}, false},
		{"CALL", chatOnly, []scorecard.ColumnKind{scorecard.KindCall}, false},
		{"email", chatOnly, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := parseKinds(tt.flag, tt.q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseMapID(t *testing.T) {
	if id, err := parseMapID("12"); err != nil || id != 12 {
		t.Errorf("parseMapID(12) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-1", "x"} {
		if _, err := parseMapID(bad); exitCode(err) != exitInput {
			t.Errorf("parseMapID(%q) err = %v, want exit %d", bad, err, exitInput)
		}
	}
}

func TestCheckJSON(t *testing.T) {
	ta := newTestApp(t)
	path := writeSnapshot(t, ta.dir, snapshotYAML)

	if err := ta.run("check", path, "--format", "json"); err != nil {
		t.Fatal(err)
	}
	var out struct {
		QualityMapID int64           `json:"quality_map_id"`
		Overall      scorecard.Stats `json:"overall"`
	}
	if err := json.Unmarshal(ta.out.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", ta.out.String(), err)
	}
	// chats 70 and 100, call 95
	if out.QualityMapID != 7 || out.Overall.AverageScore != 88 || out.Overall.FilledCount != 3 {
		t.Errorf("report = %+v", out)
	}
}

func TestCheckFailBelow(t *testing.T) {
	ta := newTestApp(t)
	path := writeSnapshot(t, ta.dir, snapshotYAML)

	err := ta.run("check", path, "--format", "markdown", "--fail-below", "90")
	if exitCode(err) != exitThreshold {
		t.Fatalf("err = %v, want exit %d", err, exitThreshold)
	}
	if !strings.Contains(ta.out.String(), "# Quality Map 7") {
		t.Errorf("report not written before failing:\n%s", ta.out.String())
	}
}

func TestCheckErrors(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run("check", filepath.Join(ta.dir, "missing.yaml"))
	if exitCode(err) != exitInput {
		t.Errorf("missing file err = %v, want exit %d", err, exitInput)
	}

	bad := strings.Replace(snapshotYAML, "deduction: 30", "deduction: -30", 1)
	path := writeSnapshot(t, ta.dir, bad)
	err = ta.run("check", path)
	if exitCode(err) != exitValidation {
		t.Errorf("invalid snapshot err = %v, want exit %d", err, exitValidation)
	}
	if !strings.Contains(ta.errOut.String(), "quality_map.deductions[0].deduction") {
		t.Errorf("stderr = %q", ta.errOut.String())
	}

	path = writeSnapshot(t, ta.dir, snapshotYAML)
	if err := ta.run("check", path, "--format", "xlsx"); exitCode(err) != exitInput {
		t.Errorf("xlsx without --out err = %v, want exit %d", err, exitInput)
	}
}

func TestCheckXLSXFile(t *testing.T) {
	ta := newTestApp(t)
	path := writeSnapshot(t, ta.dir, snapshotYAML)
	out := filepath.Join(ta.dir, "report.xlsx")

	if err := ta.run("check", path, "--format", "xlsx", "--out", out); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}
}

func mockMap() *gateway.MockGateway {
	q := &qualitymap.QualityMap{
		ID:        7,
		TeamID:    2,
		ChatCount: 2,
		ChatIDs:   []string{"abc", ""},
		CallIDs:   []string{},
		ChatDeductions: []qualitymap.DeductionRecord{
			{ID: 1, CriteriaID: 1, ChatID: "abc", Deduction: 10, Comment: "old"},
		},
	}
	return gateway.NewMock(q, []scorecard.Criterion{
		{ID: 1, Name: "Greeting", IsActive: true},
		{ID: 2, Name: "Tone", IsActive: true},
	})
}

func TestDeduct(t *testing.T) {
	ta := newTestApp(t)
	m := mockMap()
	ta.useMock(m)

	err := ta.run("deduct", "7", "--criterion", "2", "--column", "1", "--deduction", "20", "--comment", "rude")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Upserts) != 1 || m.Upserts[0].ColumnID != "abc" || m.Upserts[0].Deduction != 20 {
		t.Fatalf("upserts = %+v", m.Upserts)
	}
	last := ta.recorder.Last()
	if last.Level != notify.LevelSuccess || !strings.Contains(last.Text, "Chat 1: abc now scores 70") {
		t.Errorf("notification = %+v", last)
	}
}

func TestDeductFailures(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		upsertErr error
		code      int
		level     notify.Level
	}{
		{"unassigned column", []string{"--criterion", "1", "--column", "2", "--deduction", "5", "--comment", "x"}, nil, exitInput, notify.LevelWarning},
		{"missing comment", []string{"--criterion", "1", "--column", "1", "--deduction", "5"}, nil, exitValidation, notify.LevelError},
		{"out of range", []string{"--criterion", "1", "--column", "9", "--deduction", "5", "--comment", "x"}, nil, exitValidation, notify.LevelError},
		{"not a number", []string{"--criterion", "1", "--column", "1", "--deduction", "NaN", "--comment", "x"}, nil, exitValidation, notify.LevelError},
		{"backend down", []string{"--criterion", "1", "--column", "1", "--deduction", "5", "--comment", "x"}, errors.New("unavailable"), exitGateway, notify.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			m := mockMap()
			m.UpsertErr = tt.upsertErr
			ta.useMock(m)

			err := ta.run(append([]string{"deduct", "7"}, tt.args...)...)
			if exitCode(err) != tt.code {
				t.Fatalf("err = %v, want exit %d", err, tt.code)
			}
			if got := ta.recorder.Last().Level; got != tt.level {
				t.Errorf("notification level = %s, want %s", got, tt.level)
			}
		})
	}
}

func TestRename(t *testing.T) {
	ta := newTestApp(t)
	m := mockMap()
	ta.useMock(m)

	if err := ta.run("rename", "7", "--column", "2", "--id", " xyz "); err != nil {
		t.Fatal(err)
	}
	if len(m.Updates) != 1 || m.Updates[0][1] != "xyz" || m.Updates[0][0] != "abc" {
		t.Fatalf("updates = %v", m.Updates)
	}
	if last := ta.recorder.Last(); !strings.Contains(last.Text, `Chat 2 set to "xyz"`) {
		t.Errorf("notification = %+v", last)
	}

	m.UpdateErr = errors.New("conflict")
	err := ta.run("rename", "7", "--column", "1", "--id", "new")
	if exitCode(err) != exitGateway {
		t.Errorf("err = %v, want exit %d", err, exitGateway)
	}
}

func TestShowNotFound(t *testing.T) {
	ta := newTestApp(t)
	ta.useMock(mockMap())
	if err := ta.run("show", "99"); exitCode(err) != exitInput {
		t.Errorf("err = %v, want exit %d", err, exitInput)
	}
}

func TestCreateImportShowLocal(t *testing.T) {
	ta := newTestApp(t)
	dsn := filepath.Join(ta.dir, "local.db")

	if err := ta.run("create", "--dsn", dsn, "--team", "4", "--preset", "mixed", "--seed-criteria"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ta.out.String(), "(5 chats, 5 calls)") {
		t.Errorf("create output = %q", ta.out.String())
	}

	path := writeSnapshot(t, ta.dir, snapshotYAML)
	ta.out.Reset()
	if err := ta.run("import", "--dsn", dsn, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ta.out.String(), "Imported quality map 7: 2 criteria, 2 deductions") {
		t.Errorf("import output = %q", ta.out.String())
	}

	ta.out.Reset()
	if err := ta.run("show", "7", "--dsn", dsn, "--format", "markdown", "--kind", "chat"); err != nil {
		t.Fatal(err)
	}
	md := ta.out.String()
	for _, want := range []string{"# Quality Map 7", "**Employee:** Anna", "| **Total** | 70 | 100 | n/a |"} {
		if !strings.Contains(md, want) {
			t.Errorf("show output missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Calls") {
		t.Error("--kind chat rendered calls")
	}
}

func TestCreateRejectsBadSlots(t *testing.T) {
	ta := newTestApp(t)
	err := ta.run("create", "--dsn", filepath.Join(ta.dir, "x.db"), "--team", "1", "--chats", "0")
	if exitCode(err) != exitValidation {
		t.Errorf("err = %v, want exit %d", err, exitValidation)
	}
}

func TestPresets(t *testing.T) {
	ta := newTestApp(t)
	if err := ta.run("presets"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"standard", "mixed", "calls"} {
		if !strings.Contains(ta.out.String(), name) {
			t.Errorf("presets output missing %q:\n%s", name, ta.out.String())
		}
	}
}

func TestConfigErrorExitCode(t *testing.T) {
	ta := newTestApp(t)
	if err := ta.run("presets", "--format", "pdf"); exitCode(err) != exitInput {
		t.Errorf("err = %v, want exit %d", err, exitInput)
	}
}
