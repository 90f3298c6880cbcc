package qualitymap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/qualitymap/internal/scorecard"
)

func TestColumnsBlankInit(t *testing.T) {
	q := &QualityMap{ChatCount: 3, CallCount: 0}
	got := q.Columns(scorecard.KindChat)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, id := range got {
		if id != "" {
			t.Errorf("[%d] = %q, want empty", i, id)
		}
	}
	if n := len(q.Columns(scorecard.KindCall)); n != 0 {
		t.Errorf("call columns = %d, want 0", n)
	}
}

func TestColumnsPersisted(t *testing.T) {
	q := &QualityMap{ChatCount: 2, ChatIDs: []string{"a", ""}, CallIDs: []string{"c1"}}
	if got := q.Columns(scorecard.KindChat); got[0] != "a" || got[1] != "" {
		t.Errorf("chat columns = %v", got)
	}
	if got := q.Slots(scorecard.KindCall); got != 1 {
		t.Errorf("call slots = %d, want 1 from persisted array", got)
	}
}

func TestDeductionsByKind(t *testing.T) {
	q := &QualityMap{
		ChatDeductions: []DeductionRecord{{ID: 1, CriteriaID: 2, ChatID: "abc", Deduction: 5}},
		CallDeductions: []DeductionRecord{{ID: 2, CriteriaID: 3, CallID: "c-9", Deduction: 7}},
	}
	chats := q.Deductions(scorecard.KindChat)
	if len(chats) != 1 || chats[0].ColumnID != "abc" {
		t.Errorf("chat deductions = %+v", chats)
	}
	calls := q.Deductions(scorecard.KindCall)
	if len(calls) != 1 || calls[0].ColumnID != "c-9" {
		t.Errorf("call deductions = %+v", calls)
	}
}

func TestNewUpsertWireShape(t *testing.T) {
	tests := []struct {
		kind    scorecard.ColumnKind
		wantKey string
		notKey  string
	}{
		{scorecard.KindChat, `"chat_id":"abc"`, `"call_id"`},
		{scorecard.KindCall, `"call_id":"abc"`, `"chat_id"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			u := NewUpsert(scorecard.UpsertRequest{
				QualityMapID: 4, Kind: tt.kind, CriteriaID: 1, ColumnID: "abc", Deduction: 10, Comment: "x",
			})
			data, err := json.Marshal(u)
			if err != nil {
				t.Fatal(err)
			}
			s := string(data)
			if !strings.Contains(s, tt.wantKey) || strings.Contains(s, tt.notKey) {
				t.Errorf("payload = %s", s)
			}
			if u.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", u.Kind(), tt.kind)
			}
			back := u.ToEngine(tt.kind)
			if back.ColumnID != "abc" || back.CriteriaID != 1 || back.QualityMapID != 4 {
				t.Errorf("ToEngine = %+v", back)
			}
		})
	}
}

func TestNewColumnUpdateKeepsEmptySlots(t *testing.T) {
	u := NewColumnUpdate(scorecard.KindChat, []string{"", "b", ""})
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"chat_ids":["","b",""]}` {
		t.Errorf("payload = %s", data)
	}
}
