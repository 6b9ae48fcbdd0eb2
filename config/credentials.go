package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ByLCY/wificard/credential"
)

//go:embed config.schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

// Issue is one schema violation.
type Issue struct {
	InstanceLocation string `json:"instanceLocation"`
	KeywordLocation  string `json:"keywordLocation"`
	Message          string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("In instance `%s`, in schema `%s`: %s", i.InstanceLocation, i.KeywordLocation, i.Message)
}

// ValidationError aggregates every problem found in a credential file.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "configuration is not valid: " + e.Issues[0].String()
	}
	return fmt.Sprintf("configuration is not valid: %d issues, first: %s", len(e.Issues), e.Issues[0].String())
}

// CompileSchema compiles the embedded credential schema.
func CompileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("loading credential schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling credential schema: %w", err)
	}
	return schema, nil
}

// LoadCredentials decodes a TOML credential file, validates it against the
// schema and returns the records in file order.
func LoadCredentials(r io.Reader) ([]credential.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading credential file: %w", err)
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing credential file: %w", err)
	}

	schema, err := CompileSchema()
	if err != nil {
		return nil, err
	}
	instance, err := toJSONValue(doc)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, schemaIssues(err)
	}

	order, err := tableOrder(data, doc)
	if err != nil {
		return nil, err
	}
	records := make([]credential.Record, 0, len(order))
	var issues []Issue
	for _, name := range order {
		table, _ := doc[name].(map[string]any)
		rec, err := recordFromTable(name, table)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			issues = append(issues, Issue{InstanceLocation: "/" + jsonPointerEscape(name), Message: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return records, nil
}

func recordFromTable(name string, table map[string]any) (credential.Record, error) {
	rec := credential.Record{SSID: name}
	if ssid, ok := table["ssid"].(string); ok {
		rec.SSID = ssid
	}
	label, _ := table["security"].(string)
	sec, err := credential.ParseSecurity(label)
	if err != nil {
		return rec, err
	}
	rec.Security = sec
	rec.Password, _ = table["password"].(string)
	rec.Hidden, _ = table["hidden"].(bool)
	return rec, nil
}

// toJSONValue converts decoded TOML into the value model the validator expects.
func toJSONValue(doc map[string]any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting credential file: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("converting credential file: %w", err)
	}
	return v, nil
}

func schemaIssues(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validating credential file: %w", err)
	}
	var issues []Issue
	for _, e := range ve.BasicOutput().Errors {
		// summary nodes only point at a failing subtree
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		issues = append(issues, Issue{
			InstanceLocation: e.InstanceLocation,
			KeywordLocation:  e.KeywordLocation,
			Message:          e.Error,
		})
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{InstanceLocation: ve.InstanceLocation, KeywordLocation: ve.KeywordLocation, Message: ve.Message})
	}
	return &ValidationError{Issues: issues}
}

// tableOrder returns the top-level table names in the order they appear in the
// file. Names defined without a [table] header (dotted or inline keys) follow in
// sorted order.
func tableOrder(data []byte, doc map[string]any) ([]string, error) {
	seen := map[string]bool{}
	var order []string
	add := func(name string) {
		if _, ok := doc[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	p := unstable.Parser{}
	p.Reset(data)
	inTable := false
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			inTable = true
		case unstable.KeyValue:
			// keys after a header belong to that table
			if inTable {
				continue
			}
		default:
			continue
		}
		it := expr.Key()
		if it.Next() {
			add(string(it.Node().Data))
		}
	}
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("scanning credential file: %w", err)
	}

	var rest []string
	for name := range doc {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...), nil
}

func jsonPointerEscape(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
