package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The two engine contracts are static, so they are compiled once here rather
// than per call inside the orchestrators.
var (
	offerSchema     = mustCompileSchema("offer_extraction.json", BuildOfferJSONSchema())
	commoditySchema = mustCompileSchema("commodity_prediction.json", BuildCommodityJSONSchema())
)

// ValidateOfferJSON checks engine output against the offer extraction contract.
func ValidateOfferJSON(data []byte) error {
	return validateJSON(offerSchema, data)
}

// ValidateCommodityJSON checks engine output against the commodity
// prediction contract.
func ValidateCommodityJSON(data []byte) error {
	return validateJSON(commoditySchema, data)
}

func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func mustCompileSchema(name string, schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}
