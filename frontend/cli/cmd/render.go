package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/panglihaoshuai/context-summarizer-skill/shared"
)

type OutputFormat string

const (
	OutputFormatTable    OutputFormat = "table"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatYAML     OutputFormat = "yaml"
	OutputFormatMarkdown OutputFormat = "markdown"
)

type RenderOptions struct {
	Format OutputFormat
}

func addRenderOptions(cmd *cobra.Command, options *RenderOptions) {
	cmd.Flags().StringVarP((*string)(&options.Format), "output", "o",
		string(OutputFormatTable), "Output format (table, json, yaml, markdown)")
}

type Renderer interface {
	Render(resources any, options *RenderOptions) error
}

type consoleRenderer struct {
	out io.Writer
}

func (r *consoleRenderer) Render(resources any, options *RenderOptions) error {
	format := OutputFormatTable
	if options != nil && options.Format != "" {
		format = options.Format
	}

	switch format {
	case OutputFormatJSON:
		content, err := json.MarshalIndent(resources, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.out, string(content))
		return err
	case OutputFormatYAML:
		content, err := yaml.Marshal(resources)
		if err != nil {
			return err
		}
		_, err = r.out.Write(content)
		return err
	case OutputFormatMarkdown:
		return r.renderMarkdown(resources)
	case OutputFormatTable:
		return r.renderTable(resources)
	default:
		return shared.Errorf(shared.ErrorSourceInput, "unknown output format %q", format)
	}
}

func (r *consoleRenderer) renderMarkdown(resources any) error {
	items := normalizeToSlice(resources)

	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(r.out, "---")
		}
		for _, field := range structFields(item) {
			fmt.Fprintf(r.out, "**%s:** %v\n", field.name, field.value)
		}
	}
	return nil
}

func (r *consoleRenderer) renderTable(resources any) error {
	items := normalizeToSlice(resources)
	if len(items) == 0 {
		return nil
	}

	var headers []string
	for _, field := range structFields(items[0]) {
		headers = append(headers, strings.ToUpper(field.name))
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, item := range items {
		var row []string
		for _, field := range structFields(item) {
			row = append(row, fmt.Sprintf("%v", field.value))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

type displayField struct {
	name  string
	value any
}

func structFields(item any) []displayField {
	value := reflect.ValueOf(item)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return []displayField{{name: "value", value: item}}
	}

	var fields []displayField
	structType := value.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			if tagName := strings.Split(tag, ",")[0]; tagName != "" && tagName != "-" {
				name = tagName
			}
		}
		fields = append(fields, displayField{name: name, value: value.Field(i).Interface()})
	}
	return fields
}

func normalizeToSlice(resources any) []any {
	if resources == nil {
		return nil
	}

	value := reflect.ValueOf(resources)
	if value.Kind() == reflect.Slice {
		items := make([]any, 0, value.Len())
		for i := 0; i < value.Len(); i++ {
			items = append(items, value.Index(i).Interface())
		}
		return items
	}
	return []any{resources}
}
