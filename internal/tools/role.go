package tools

import (
	"context"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

func roleTools(d Deps) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool("getRoles",
			"Fetch all interview roles. Optionally filter results by company name.",
			objectSchema(nil, map[string]any{
				"company_name": strProp("The name of the company to filter roles by."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "getRoles")
				log.Info("tool called")

				a := Args(args)
				companyName, hasName, err := a.OptionalString("company_name")
				if err != nil {
					return nil, err
				}

				q := store.Query{Embed: []string{"roles"}}
				if hasName {
					q.Eq = map[string]string{"name": companyName}
				}
				rows, err := d.Store.Select(ctx, "companies", q)
				if err != nil {
					log.Error("error fetching roles", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(rows), nil
			}),

		newTool("addRole",
			"Add a new interview role and associate it to a company. If the system does not know the company, it will be created. Include all available details (especially company size, industry, and role level) to improve tracking and insights. If fields are missing, attempt to retrieve them from external or prior context. Fields such as company size, source, and initiated_by are particularly encouraged for completeness.",
			objectSchema([]string{"company_name", "title"}, map[string]any{
				"user_id":                strProp("The ID of the user creating the role (typically provided by the session or token context)."),
				"company_name":           strProp("The name of the company offering the role. If unclear, ask the user for clarification."),
				"company_size":           enumProp(`The approximate size of the company (e.g., "51-200", "5001-10,000"). If unknown, use the "unknown" value. Do not guess.`, companySizes),
				"company_industry":       enumProp(`The industry of the company, e.g., "Fintech", "Cybersecurity". Encouraged to fill when there is high confidence in the value.`, techIndustries),
				"company_location":       strProp("Geographic location of the local company office for the role. If unknown, leave empty rather than using HQ location unless explicitly stated."),
				"company_notes":          strProp("Freeform notes about the company, such as product focus, funding stage, etc."),
				"title":                  strProp(`The job title being tracked (e.g., "Senior Backend Engineer"). If the title is unclear or not provided, do not make one up; instead, ask the user for clarification.`),
				"level":                  strProp(`Seniority level of the role, e.g., "Mid", "Senior", "Staff". If the level is unclear, ask the user.`),
				"tech_stack":             strArrayProp(`List of technologies relevant to the role (e.g., ["TypeScript", "PostgreSQL"]).`),
				"compensation_requested": anyProp("The compensation you requested, structured as JSON with fields like base, bonus, equity. If unknown, leave it empty."),
				"compensation_offered":   anyProp("The compensation the company offered you, structured similarly to compensation_requested."),
				"status":                 strProp(`The current status of this application or role (e.g., "open", "offer", "rejected").`),
				"source":                 strProp(`How the role opportunity originated: e.g., "LinkedIn", "headhunter", "email", etc. Strongly encouraged.`),
				"initiated_by":           enumProp(`Indicates whether you initiated the contact or the company did (either "user" or "company"). Strongly encouraged.`, initiatedByValues),
				"notes":                  strProp("Freeform notes about the role, anything not structured above."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				return d.addRole(ctx, Args(args))
			}),

		newTool("updateRole",
			"Update an existing interview role with new or corrected information. Supports partial updates to any role field. Provide as much detail as possible (company size, industry, role level, compensation, etc.) to ensure better tracking and insights.",
			objectSchema([]string{"id"}, map[string]any{
				"id":                     strProp("The ID of the role to update."),
				"title":                  strProp("The job title being tracked."),
				"level":                  strProp("Seniority level of the role."),
				"tech_stack":             strArrayProp("List of technologies relevant to the role."),
				"compensation_requested": anyProp("The compensation you requested."),
				"compensation_offered":   anyProp("The compensation the company offered you."),
				"status":                 strProp("The current status of this application or role."),
				"source":                 strProp("How the role opportunity originated."),
				"initiated_by":           enumProp(`Either "user" or "company".`, initiatedByValues),
				"notes":                  strProp("Freeform notes about the role."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "updateRole")
				log.Info("tool called")

				a := Args(args)
				id, err := a.UUID("id")
				if err != nil {
					return nil, err
				}
				rec, err := newPatch(a).
					nonEmpty("title").
					str("level").
					strs("tech_stack").
					raw("compensation_requested").
					raw("compensation_offered").
					str("status").
					str("source").
					enum("initiated_by", initiatedByValues).
					str("notes").
					build()
				if err != nil {
					return nil, err
				}

				row, err := d.Store.Update(ctx, "roles", id, rec)
				if err != nil {
					log.Error("error updating role", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(row), nil
			}),
	}
}

// addRole resolves the company by name, creating it on demand, then
// inserts the role. The two writes are not transactional: a company
// created here stays behind even when the role insert fails.
func (d Deps) addRole(ctx context.Context, a Args) (*mcpserver.ToolCallResult, error) {
	log := d.toolLogger(ctx, "addRole")
	log.Info("tool called")

	companyName, err := a.String("company_name")
	if err != nil {
		return nil, err
	}
	title, err := a.String("title")
	if err != nil {
		return nil, err
	}
	userID, hasUser, err := a.OptionalUUID("user_id")
	if err != nil {
		return nil, err
	}

	// Validate everything up front so no write happens on malformed input.
	companyFields, err := newPatch(a).
		enum("company_size", companySizes).
		enum("company_industry", techIndustries).
		str("company_location").
		str("company_notes").
		build()
	if err != nil {
		return nil, err
	}
	roleRow, err := newPatch(a).
		str("level").
		strs("tech_stack").
		raw("compensation_requested").
		raw("compensation_offered").
		str("status").
		str("source").
		enum("initiated_by", initiatedByValues).
		str("notes").
		build()
	if err != nil {
		return nil, err
	}

	// Find or create the company. Name matching is exact and
	// case-sensitive; duplicate names are not merged, the first match
	// wins in whatever order the store returns.
	matches, err := d.Store.Select(ctx, "companies", store.Query{
		Columns: "id",
		Eq:      map[string]string{"name": companyName},
	})
	if err != nil {
		log.Error("error finding company in addRole", "error", err)
		return mcpserver.ErrorResult(err), nil
	}

	var companyID string
	if len(matches) > 0 {
		companyID, _ = matches[0]["id"].(string)
	} else {
		companyRow := store.Record{"name": companyName}
		for _, field := range []struct{ arg, col string }{
			{"company_size", "size"},
			{"company_industry", "industry"},
			{"company_location", "location"},
			{"company_notes", "notes"},
		} {
			if v, ok := companyFields[field.arg]; ok {
				companyRow[field.col] = v
			}
		}
		created, err := d.Store.Insert(ctx, "companies", companyRow)
		if err != nil {
			log.Error("error inserting company in addRole", "error", err)
			return mcpserver.ErrorResult(err), nil
		}
		companyID, _ = created["id"].(string)
	}

	roleRow["company_id"] = companyID
	roleRow["title"] = title
	if hasUser {
		roleRow["user_id"] = userID
	}

	created, err := d.Store.Insert(ctx, "roles", roleRow)
	if err != nil {
		log.Error("error inserting role in addRole", "error", err)
		return mcpserver.ErrorResult(err), nil
	}

	log.Info("tool completed")
	return mcpserver.SuccessResult(created), nil
}
