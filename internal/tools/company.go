package tools

import (
	"context"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

func companyTools(d Deps) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool("getCompanies",
			"Fetches all companies where the user has active interview progress",
			objectSchema(nil, map[string]any{}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "getCompanies")
				log.Info("tool called")

				rows, err := d.Store.Select(ctx, "companies", store.Query{})
				if err != nil {
					log.Error("error fetching companies", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.StructuredResult("companies", rows), nil
			}),

		newTool("updateCompany",
			"Update an existing company's information",
			objectSchema([]string{"id"}, map[string]any{
				"id":       strProp("The ID of the company to update"),
				"name":     strProp("The name of the company offering the role. If unclear, ask the user for clarification."),
				"size":     enumProp(`The approximate size of the company (e.g., "51-200", "5001-10,000"). If unknown, use the "unknown" value. Do not guess.`, companySizes),
				"industry": enumProp(`The industry of the company, e.g., "Fintech", "Cybersecurity". Encouraged to fill when there is high confidence in the value.`, techIndustries),
				"location": strProp("Geographic location of the local company office for the role. Precise address is preferred over just city name."),
				"notes":    strProp("Freeform notes about the company, such as product focus, funding stage, etc."),
			}),
			func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
				log := d.toolLogger(ctx, "updateCompany")
				log.Info("tool called")

				a := Args(args)
				id, err := a.UUID("id")
				if err != nil {
					return nil, err
				}
				rec, err := newPatch(a).
					nonEmpty("name").
					enum("size", companySizes).
					enum("industry", techIndustries).
					str("location").
					str("notes").
					build()
				if err != nil {
					return nil, err
				}

				row, err := d.Store.Update(ctx, "companies", id, rec)
				if err != nil {
					log.Error("error updating company", "error", err)
					return mcpserver.ErrorResult(err), nil
				}

				log.Info("tool completed")
				return mcpserver.SuccessResult(row), nil
			}),
	}
}
