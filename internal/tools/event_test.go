package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

const eventRoleID = "123e4567-e89b-12d3-a456-426614174000"

func TestGetInterviewEvents(t *testing.T) {
	fs := newFakeStore()
	fs.seed("interview_events",
		store.Record{"id": "e-1", "role_id": eventRoleID, "event_type": "Phone Screen"},
		store.Record{"id": "e-2", "role_id": "223e4567-e89b-12d3-a456-426614174000", "event_type": "On-site"},
	)
	d, _ := testDeps(t, fs)
	tool := findTool(t, eventTools(d), "getInterviewEvents")

	res, err := tool.Execute(context.Background(), map[string]any{"role_id": eventRoleID})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected failure: %v", res.Content)
	}

	var events []map[string]any
	textJSON(t, res, &events)
	if len(events) != 1 {
		t.Fatalf("expected one event for the role, got %d", len(events))
	}
	if events[0]["event_type"] != "Phone Screen" {
		t.Fatalf("unexpected event %v", events[0])
	}
}

func TestAddInterviewEvent_DateValidation(t *testing.T) {
	fs := newFakeStore()
	d, _ := testDeps(t, fs)
	tool := findTool(t, eventTools(d), "addInterviewEvent")

	// Shape-only check: digit groups are not range-validated.
	res, err := tool.Execute(context.Background(), map[string]any{
		"role_id":    eventRoleID,
		"event_type": "Phone Screen",
		"event_date": "2024-13-40",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected failure: %v", res.Content)
	}
	if fs.tables["interview_events"][0]["event_date"] != "2024-13-40" {
		t.Fatal("expected the date stored as given")
	}

	for _, bad := range []string{"2024-1-1", "24-01-01", "2024/01/01", "January 1, 2024"} {
		_, err := tool.Execute(context.Background(), map[string]any{
			"role_id":    eventRoleID,
			"event_type": "Phone Screen",
			"event_date": bad,
		})
		var argErr *mcpserver.ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("date %q: expected ArgumentError, got %v", bad, err)
		}
		if argErr.Field != "event_date" {
			t.Fatalf("date %q: unexpected field %q", bad, argErr.Field)
		}
	}
}

func TestAddInterviewEvent_MissingRequired(t *testing.T) {
	d, _ := testDeps(t, newFakeStore())
	tool := findTool(t, eventTools(d), "addInterviewEvent")

	for _, args := range []map[string]any{
		{"event_type": "Phone Screen"},
		{"role_id": eventRoleID},
		{"role_id": "nope", "event_type": "Phone Screen"},
	} {
		_, err := tool.Execute(context.Background(), args)
		var argErr *mcpserver.ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("args %v: expected ArgumentError, got %v", args, err)
		}
	}
}

func TestUpdateInterviewEvent_SparsePatch(t *testing.T) {
	fs := newFakeStore()
	fs.seed("interview_events", store.Record{
		"id":         eventRoleID,
		"role_id":    "223e4567-e89b-12d3-a456-426614174000",
		"event_type": "Phone Screen",
		"notes":      "intro call",
	})
	d, _ := testDeps(t, fs)
	tool := findTool(t, eventTools(d), "updateInterviewEvent")

	res, err := tool.Execute(context.Background(), map[string]any{
		"id":      eventRoleID,
		"outcome": "Proceeding to next round",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected failure: %v", res.Content)
	}

	row := fs.tables["interview_events"][0]
	if row["outcome"] != "Proceeding to next round" {
		t.Fatalf("expected outcome updated, got %v", row["outcome"])
	}
	if row["event_type"] != "Phone Screen" || row["notes"] != "intro call" {
		t.Fatal("fields absent from the patch must be preserved")
	}
}

func TestRemoveInterviewEvent(t *testing.T) {
	fs := newFakeStore()
	fs.seed("interview_events", store.Record{"id": eventRoleID, "event_type": "Phone Screen"})
	d, _ := testDeps(t, fs)
	tool := findTool(t, eventTools(d), "removeInterviewEvent")

	res, err := tool.Execute(context.Background(), map[string]any{"id": eventRoleID})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected failure: %v", res.Content)
	}
	want := "Interview event with id " + eventRoleID + " was removed successfully"
	if res.Content[0].Text != want {
		t.Fatalf("expected %q, got %q", want, res.Content[0].Text)
	}
	if len(fs.tables["interview_events"]) != 0 {
		t.Fatal("expected the event deleted")
	}
}

func TestRemoveInterviewEvent_MissingID(t *testing.T) {
	d, _ := testDeps(t, newFakeStore())
	tool := findTool(t, eventTools(d), "removeInterviewEvent")

	// Deleting an id that matches nothing still reports success.
	res, err := tool.Execute(context.Background(), map[string]any{"id": eventRoleID})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatal("expected success for a missing id")
	}
	want := "Interview event with id " + eventRoleID + " was removed successfully"
	if res.Content[0].Text != want {
		t.Fatalf("expected %q, got %q", want, res.Content[0].Text)
	}
}
