package models

import (
	"reflect"
	"testing"
)

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"both names", User{Username: "alice", FirstName: "Alice", LastName: "Smith"}, "Alice Smith"},
		{"first only", User{Username: "alice", FirstName: "Alice"}, "Alice"},
		{"last only", User{Username: "alice", LastName: "Smith"}, "Smith"},
		{"no names falls back to username", User{Username: "alice"}, "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgramLevelAndGoalLists(t *testing.T) {
	p := &Program{}
	p.SetLevels([]string{"BEGINNER", " INTERMEDIATE ", ""})
	p.SetGoals([]string{"STRENGTH"})

	if got := p.LevelList(); !reflect.DeepEqual(got, []string{"BEGINNER", "INTERMEDIATE"}) {
		t.Errorf("LevelList() = %v", got)
	}
	if got := p.GoalList(); !reflect.DeepEqual(got, []string{"STRENGTH"}) {
		t.Errorf("GoalList() = %v", got)
	}

	empty := &Program{}
	if got := empty.LevelList(); len(got) != 0 {
		t.Errorf("expected empty list for empty CSV, got %v", got)
	}
}

func TestProgramIsOwnedBy(t *testing.T) {
	p := &Program{CreatedByID: "user-1"}
	if !p.IsOwnedBy("user-1") {
		t.Error("expected creator to own the program")
	}
	if p.IsOwnedBy("user-2") {
		t.Error("expected other users not to own the program")
	}

	orphan := &Program{}
	if orphan.IsOwnedBy("") {
		t.Error("a program without a creator has no owner")
	}
}
