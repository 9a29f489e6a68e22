package tools

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

func eventTools(d Deps) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool("getInterviewEvents",
			"Fetch all interview events for a given role.",
			objectSchema([]string{"role_id"}, map[string]any{
				"role_id": strProp("The ID of the role to fetch events for."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "getInterviewEvents")
				log.Info("tool called")

				a := Args(args)
				roleID, err := a.UUID("role_id")
				if err != nil {
					return nil, err
				}

				rows, err := d.Store.Select(ctx, "interview_events", store.Query{
					Eq: map[string]string{"role_id": roleID},
				})
				if err != nil {
					log.Error("error fetching interview events", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(rows), nil
			}),

		newTool("addInterviewEvent",
			"Add a new interview event for a role. If the contact does not exist, create it first using the addContact tool. Try to fill as much info as possible.",
			objectSchema([]string{"role_id", "event_type"}, map[string]any{
				"role_id":      strProp("The ID of the role to add an event for. In case there are multiple ones, must be stated explicitly."),
				"event_type":   strProp(`The type of interview event (e.g., "Phone Screen", "Technical Interview", "On-site"). If unclear, ask the user.`),
				"event_date":   strProp("The date of the interview event in YYYY-MM-DD format. If unknown, ask the user."),
				"contact_id":   strProp("The ID of the contact associated with this interview event. Use updateInterviewEvent to add the contact info later on."),
				"meeting_type": strProp(`The type of meeting (e.g., "Zoom", "Phone Call", "Onsite Meeting", "Coffee Chat"). If unknown, leave empty.`),
				"notes":        strProp("Freeform notes about the interview event."),
				"outcome":      strProp(`The outcome of the interview event (e.g., "Proceeding to next round", "Offer", "Rejected"). If unknown, leave empty.`),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "addInterviewEvent")
				log.Info("tool called")

				a := Args(args)
				roleID, err := a.UUID("role_id")
				if err != nil {
					return nil, err
				}
				eventType, err := a.String("event_type")
				if err != nil {
					return nil, err
				}
				rec, err := newPatch(a).
					date("event_date").
					uuid("contact_id").
					str("meeting_type").
					str("notes").
					str("outcome").
					build()
				if err != nil {
					return nil, err
				}
				rec["role_id"] = roleID
				rec["event_type"] = eventType

				row, err := d.Store.Insert(ctx, "interview_events", rec)
				if err != nil {
					log.Error("error adding interview event", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(row), nil
			}),

		newTool("updateInterviewEvent",
			"Update an existing interview event.",
			objectSchema([]string{"id"}, map[string]any{
				"id":           strProp("The ID of the interview event to update."),
				"event_type":   strProp("The type of interview event."),
				"event_date":   strProp("The date of the interview event in YYYY-MM-DD format."),
				"contact_id":   strProp("The ID of the contact associated with this interview event."),
				"meeting_type": strProp("The type of meeting."),
				"notes":        strProp("Freeform notes about the interview event."),
				"outcome":      strProp("The outcome of the interview event."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "updateInterviewEvent")
				log.Info("tool called")

				a := Args(args)
				id, err := a.UUID("id")
				if err != nil {
					return nil, err
				}
				rec, err := newPatch(a).
					nonEmpty("event_type").
					date("event_date").
					uuid("contact_id").
					str("meeting_type").
					str("notes").
					str("outcome").
					build()
				if err != nil {
					return nil, err
				}

				row, err := d.Store.Update(ctx, "interview_events", id, rec)
				if err != nil {
					log.Error("error updating interview event", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(row), nil
			}),

		newTool("removeInterviewEvent",
			"Remove an interview event.",
			objectSchema([]string{"id"}, map[string]any{
				"id": strProp("The ID of the interview event to remove. Must be provided explicitly."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "removeInterviewEvent")
				log.Info("tool called")

				a := Args(args)
				id, err := a.UUID("id")
				if err != nil {
					return nil, err
				}

				// The store reports success even when the id matched no
				// row, and so does this tool.
				if err := d.Store.Delete(ctx, "interview_events", id); err != nil {
					log.Error("error removing interview event", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.TextResult(fmt.Sprintf("Interview event with id %s was removed successfully", id)), nil
			}),
	}
}
