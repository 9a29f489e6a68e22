package tools

// Fixed value sets for enum fields. Anything outside these sets is
// rejected before the handler runs.
var (
	companySizes = []string{
		"1-10", "11-50", "51-200", "201-500", "501-1000",
		"1001-5000", "5001-10,000", "10,001+", "unknown",
	}

	techIndustries = []string{
		"Software", "Hardware", "Cloud Computing", "Artificial Intelligence",
		"Cybersecurity", "FinTech", "HealthTech", "E-commerce", "Gaming",
		"Social Media", "Enterprise Software", "Mobile Apps", "DevOps",
		"Blockchain", "IoT", "EdTech", "Robotics", "Semiconductor",
		"Telecommunications", "Data Analytics", "Other",
	}

	initiatedByValues = []string{"user", "company"}
)

// JSON Schema builders for tool input definitions.

func objectSchema(required []string, props map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func strProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func enumProp(desc string, values []string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": desc}
}

func strArrayProp(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// anyProp declares an opaque JSON value, schema not enforced beyond that.
func anyProp(desc string) map[string]any {
	return map[string]any{"description": desc}
}
