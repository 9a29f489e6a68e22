package tools

import (
	"context"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

func contactTools(d Deps) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool("getContacts",
			"Fetch all contacts. Optionally filter results by company name.",
			objectSchema(nil, map[string]any{
				"company_name": strProp("The name of the company to filter contacts by."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "getContacts")
				log.Info("tool called")

				a := Args(args)
				companyName, hasName, err := a.OptionalString("company_name")
				if err != nil {
					return nil, err
				}

				q := store.Query{Embed: []string{"contacts"}}
				if hasName {
					q.Eq = map[string]string{"name": companyName}
				}
				rows, err := d.Store.Select(ctx, "companies", q)
				if err != nil {
					log.Error("error fetching contacts", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(rows), nil
			}),

		newTool("addContact",
			"Add a new contact for a company.",
			objectSchema([]string{"company_id", "name", "role"}, map[string]any{
				"company_id":   strProp("The ID of the company the contact belongs to."),
				"name":         strProp("The name of the contact. Must be provided explicitly."),
				"role":         strProp("The contact's role or title. If unknown, ask the user for clarification."),
				"email":        strProp("The contact's email address. If unknown, leave empty."),
				"linkedin_url": strProp("The contact's LinkedIn profile URL. If unknown, leave empty."),
				"phone_number": strProp("The contact's phone number. If unknown, leave empty."),
				"notes":        strProp("Freeform notes about the contact."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "addContact")
				log.Info("tool called")

				a := Args(args)
				companyID, err := a.UUID("company_id")
				if err != nil {
					return nil, err
				}
				name, err := a.String("name")
				if err != nil {
					return nil, err
				}
				role, err := a.String("role")
				if err != nil {
					return nil, err
				}
				rec, err := newPatch(a).
					email("email").
					url("linkedin_url").
					str("phone_number").
					str("notes").
					build()
				if err != nil {
					return nil, err
				}
				rec["company_id"] = companyID
				rec["name"] = name
				rec["role"] = role

				row, err := d.Store.Insert(ctx, "contacts", rec)
				if err != nil {
					log.Error("error adding contact", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(row), nil
			}),

		newTool("updateContact",
			"Update an existing contact.",
			objectSchema([]string{"id"}, map[string]any{
				"id":           strProp("The ID of the contact to update."),
				"name":         strProp("The name of the contact."),
				"role":         strProp("The contact's role or title."),
				"email":        strProp("The contact's email address."),
				"linkedin_url": strProp("The contact's LinkedIn profile URL."),
				"phone_number": strProp("The contact's phone number."),
				"notes":        strProp("Freeform notes about the contact."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "updateContact")
				log.Info("tool called")

				a := Args(args)
				id, err := a.UUID("id")
				if err != nil {
					return nil, err
				}
				rec, err := newPatch(a).
					nonEmpty("name").
					nonEmpty("role").
					email("email").
					url("linkedin_url").
					str("phone_number").
					str("notes").
					build()
				if err != nil {
					return nil, err
				}

				row, err := d.Store.Update(ctx, "contacts", id, rec)
				if err != nil {
					log.Error("error updating contact", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(row), nil
			}),
	}
}
