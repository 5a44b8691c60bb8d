package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	base := Snapshot{
		Machine: "Tok",
		Active:  []string{"Root", "Root.Decision", "Root.Decision.Rest"},
		Context: Context{Name: "Tok", IsHungry: true},
	}

	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &base,
			wantDiff: &SnapshotDiff{
				Machine: "Tok",
				Entered: []string{"Root", "Root.Decision", "Root.Decision.Rest"},
				Flags:   map[string]bool{FlagHungry: true},
			},
		},
		{
			name:     "No Changes",
			old:      &base,
			new:      &base,
			wantDiff: nil,
		},
		{
			name: "Selection Change",
			old:  &base,
			new: &Snapshot{
				Machine: "Tok",
				Tick:    2,
				Active:  []string{"Root", "Root.Decision", "Root.Decision.Work"},
				Context: Context{Name: "Tok", IsHungry: true},
			},
			wantDiff: &SnapshotDiff{
				Machine: "Tok",
				Tick:    2,
				Entered: []string{"Root.Decision.Work"},
				Exited:  []string{"Root.Decision.Rest"},
			},
		},
		{
			name: "Flag Flip",
			old:  &base,
			new: &Snapshot{
				Machine: "Tok",
				Active:  base.Active,
				Context: Context{Name: "Tok", StomachPain: true, Flags: map[string]bool{"wantsWork": true}},
			},
			wantDiff: &SnapshotDiff{
				Machine: "Tok",
				Flags:   map[string]bool{FlagHungry: false, FlagStomachPain: true, "wantsWork": true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %v", tt.wantDiff)
			}

			if got.Tick != tt.wantDiff.Tick {
				t.Errorf("Diff().Tick = %v, want %v", got.Tick, tt.wantDiff.Tick)
			}
			if !reflect.DeepEqual(got.Entered, tt.wantDiff.Entered) {
				t.Errorf("Diff().Entered = %v, want %v", got.Entered, tt.wantDiff.Entered)
			}
			if !reflect.DeepEqual(got.Exited, tt.wantDiff.Exited) {
				t.Errorf("Diff().Exited = %v, want %v", got.Exited, tt.wantDiff.Exited)
			}
			if !reflect.DeepEqual(got.Flags, tt.wantDiff.Flags) {
				t.Errorf("Diff().Flags = %v, want %v", got.Flags, tt.wantDiff.Flags)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Unchanged Flags Omitted", func(t *testing.T) {
		s1 := &Snapshot{Active: []string{"Root"}, Context: Context{IsHungry: true}}
		s2 := &Snapshot{Active: []string{"Root", "Root.Body"}, Context: Context{IsHungry: true}}
		diff := Diff(s1, s2)

		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}
		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"flags"`) {
			t.Errorf("JSON should not contain 'flags' when unchanged, got: %s", string(bytes))
		}
	})

	t.Run("Cleared Flags as False", func(t *testing.T) {
		s1 := &Snapshot{Context: Context{IsHungry: true}}
		s2 := &Snapshot{Context: Context{}}
		diff := Diff(s1, s2)

		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}
		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"isHungry":false`) {
			t.Errorf("JSON should contain 'isHungry':false, got: %s", string(bytes))
		}
	})
}

func TestSnapshot_IsActive(t *testing.T) {
	s := Snapshot{Active: []string{"Root", "Root.Body"}}
	if !s.IsActive("Root.Body") {
		t.Error("expected Root.Body to be active")
	}
	if s.IsActive("Root.Decision") {
		t.Error("expected Root.Decision to be inactive")
	}
}
