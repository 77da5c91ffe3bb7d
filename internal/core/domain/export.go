package domain

// ExportDocument is the flat JSON view of a Document handed to callers:
// the shape of get_document_as_json and of updated_document payloads.
type ExportDocument struct {
	SourceFile     string                        `json:"source_file"`
	TextProperties map[string]PropertyDescriptor `json:"textProperties"`
	Body           []map[string]any              `json:"body"`
}

// Export materializes the nested JSON view of the document, walking the
// body in order and inlining each container's children.
func (d *Document) Export() ExportDocument {
	body := make([]map[string]any, 0, len(d.Body))
	for _, id := range d.Body {
		if block := d.exportElement(id); block != nil {
			body = append(body, block)
		}
	}
	return ExportDocument{
		SourceFile:     d.SourceFile,
		TextProperties: d.Registry.Snapshot(),
		Body:           body,
	}
}

func (d *Document) exportElement(id string) map[string]any {
	el, ok := d.elements[id]
	if !ok {
		return nil
	}

	out := map[string]any{
		"id":   el.ID,
		"type": string(el.Kind),
	}
	for key, val := range el.Properties {
		out[key] = val
	}

	switch el.Kind {
	case KindRun:
		out["text"] = el.Content
		if el.TextPropsRef != "" {
			out["textPropsRef"] = el.TextPropsRef
		}

	case KindParagraph:
		content := make([]map[string]any, 0, len(el.Children))
		for _, cid := range el.Children {
			if run := d.exportElement(cid); run != nil {
				content = append(content, run)
			}
		}
		out["content"] = content

	case KindTable:
		rows := make([]map[string]any, 0, len(el.Children))
		for _, cid := range el.Children {
			if row := d.exportElement(cid); row != nil {
				rows = append(rows, row)
			}
		}
		out["rows"] = rows

	case KindRow:
		cells := make([]map[string]any, 0, len(el.Children))
		for _, cid := range el.Children {
			if cell := d.exportElement(cid); cell != nil {
				cells = append(cells, cell)
			}
		}
		out["cells"] = cells

	case KindCell:
		content := make([]map[string]any, 0, len(el.Children))
		for _, cid := range el.Children {
			if block := d.exportElement(cid); block != nil {
				content = append(content, block)
			}
		}
		out["content"] = content
	}

	return out
}
