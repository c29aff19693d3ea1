package store

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

const pipelineSchemaName = "pipeline.schema.json"

//go:embed schema/pipeline.schema.json
var pipelineSchemaJSON string

var (
	pipelineSchemaOnce sync.Once
	pipelineSchema     *jsonschema.Schema
	pipelineSchemaErr  error
)

func compiledPipelineSchema() (*jsonschema.Schema, error) {
	pipelineSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(pipelineSchemaName, strings.NewReader(pipelineSchemaJSON)); err != nil {
			pipelineSchemaErr = err
			return
		}
		pipelineSchema, pipelineSchemaErr = compiler.Compile(pipelineSchemaName)
	})
	return pipelineSchema, pipelineSchemaErr
}

// ValidatePipelineJSON checks a pipeline artifact against the artifact
// schema before decoding.
func ValidatePipelineJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidArtifact)
	}

	schema, err := compiledPipelineSchema()
	if err != nil {
		return fmt.Errorf("compile pipeline schema: %w", err)
	}

	if err := schema.Validate(gjson.ParseBytes(data).Value()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return nil
}
