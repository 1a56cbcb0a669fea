package split

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	groupSchemaOnce sync.Once
	groupSchema     *jsonschema.Schema
	groupSchemaErr  error
)

func compiledGroupSchema() (*jsonschema.Schema, error) {
	groupSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(groupResponseSchema))
		if err != nil {
			groupSchemaErr = fmt.Errorf("failed to parse group schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("group.json", doc); err != nil {
			groupSchemaErr = fmt.Errorf("failed to add group schema: %w", err)
			return
		}
		groupSchema, groupSchemaErr = compiler.Compile("group.json")
	})
	return groupSchema, groupSchemaErr
}

// validateGroupResponse checks a structured grouping reply against the
// response schema before any value is trusted.
func validateGroupResponse(resp string) error {
	schema, err := compiledGroupSchema()
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(resp))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
