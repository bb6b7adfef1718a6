package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyExtractor extracts top-level declarations and imports from a parsed
// Python syntax tree. Declarations nested inside functions or classes are
// not extracted as graph nodes.
type pyExtractor struct{}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) *FileRecord {
	rec := &FileRecord{
		Path:        filePath,
		Imports:     make(map[string]string),
		FromImports: make(map[string]string),
	}

	// Only the module's direct statements are scanned for declarations.
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil {
			continue
		}

		kind := stmt.Kind()
		if kind == "decorated_definition" {
			if def := stmt.ChildByFieldName("definition"); def != nil {
				// Line range covers the decorators too.
				e.extractDefinition(def, stmt, source, rec)
			}
			continue
		}

		switch kind {
		case "function_definition", "class_definition":
			e.extractDefinition(stmt, stmt, source, rec)
		case "import_statement":
			e.extractImport(stmt, source, rec)
		case "import_from_statement":
			e.extractFromImport(stmt, source, rec)
		}
	}

	return rec
}

// extractDefinition handles a function_definition or class_definition node.
// span is the node whose line range is recorded; for decorated definitions
// it is the enclosing decorated_definition.
func (e *pyExtractor) extractDefinition(def, span *tree_sitter.Node, source []byte, rec *FileRecord) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	startLine := int(span.StartPosition().Row) + 1
	endLine := int(span.EndPosition().Row) + 1

	switch def.Kind() {
	case "function_definition":
		rec.Functions = append(rec.Functions, FunctionDecl{
			Name:      name,
			StartLine: startLine,
			EndLine:   endLine,
			Doc:       docstring(def, source),
			Params:    paramNames(def, source),
			Callees:   collectCallees(def, source),
		})
	case "class_definition":
		rec.Classes = append(rec.Classes, ClassDecl{
			Name:      name,
			StartLine: startLine,
			EndLine:   endLine,
			Doc:       docstring(def, source),
		})
	}
}

// extractImport handles "import X" and "import X as Y". The bound alias
// maps to the root module name: "import pkg.sub" records pkg -> pkg, and
// "import pkg.sub as p" records p -> pkg.
func (e *pyExtractor) extractImport(node *tree_sitter.Node, source []byte, rec *FileRecord) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			module := rootModule(child.Utf8Text(source))
			if module != "" {
				rec.Imports[module] = module
			}
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			module := rootModule(nameNode.Utf8Text(source))
			alias := aliasNode.Utf8Text(source)
			if module != "" && alias != "" {
				rec.Imports[alias] = module
			}
		}
	}
}

// extractFromImport handles "from X import a, b as c". Each imported name
// (or its alias) maps to X's root module name. Relative imports with no
// module target ("from . import a") are ignored.
func (e *pyExtractor) extractFromImport(node *tree_sitter.Node, source []byte, rec *FileRecord) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	if moduleNode.Kind() == "relative_import" {
		// "from .sub import x" still names a module; bare "from . import x"
		// does not and is skipped.
		var dotted *tree_sitter.Node
		for i := uint(0); i < moduleNode.NamedChildCount(); i++ {
			if c := moduleNode.NamedChild(i); c != nil && c.Kind() == "dotted_name" {
				dotted = c
				break
			}
		}
		if dotted == nil {
			return
		}
		moduleNode = dotted
	}

	module := rootModule(moduleNode.Utf8Text(source))
	if module == "" {
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Id() == moduleNode.Id() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			name := child.Utf8Text(source)
			if name != "" {
				rec.FromImports[name] = module
			}
		case "aliased_import":
			aliasNode := child.ChildByFieldName("alias")
			if aliasNode == nil {
				continue
			}
			alias := aliasNode.Utf8Text(source)
			if alias != "" {
				rec.FromImports[alias] = module
			}
		case "wildcard_import":
			rec.FromImports["*"] = module
		}
	}
}

// collectCallees walks the full subtree of a function definition and
// returns the name of every call expression whose callee is a bare
// identifier. Attribute calls (obj.method()) and computed callees are
// skipped here, which is what restricts call resolution to direct
// same-file references.
func collectCallees(def *tree_sitter.Node, source []byte) []string {
	var callees []string

	cursor := def.Walk()
	defer cursor.Close()

	var walk func()
	walk = func() {
		node := cursor.Node()
		if node.Kind() == "call" {
			if fn := node.ChildByFieldName("function"); fn != nil && fn.Kind() == "identifier" {
				if name := fn.Utf8Text(source); name != "" {
					callees = append(callees, name)
				}
			}
		}
		if cursor.GotoFirstChild() {
			walk()
			for cursor.GotoNextSibling() {
				walk()
			}
			cursor.GotoParent()
		}
	}
	walk()

	return callees
}

// paramNames returns the declared parameter names in declaration order.
// Splat parameters (*args, **kwargs) and bare separators are excluded.
func paramNames(def *tree_sitter.Node, source []byte) []string {
	params := def.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var names []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "identifier":
			names = append(names, p.Utf8Text(source))
		case "typed_parameter":
			// First child is the parameter pattern; only plain names count.
			if c := p.NamedChild(0); c != nil && c.Kind() == "identifier" {
				names = append(names, c.Utf8Text(source))
			}
		case "default_parameter", "typed_default_parameter":
			if nameNode := p.ChildByFieldName("name"); nameNode != nil && nameNode.Kind() == "identifier" {
				names = append(names, nameNode.Utf8Text(source))
			}
		}
	}
	return names
}

// docstring returns the documentation string of a function or class body,
// or "" if the first statement is not a string literal.
func docstring(def *tree_sitter.Node, source []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}

	// Concatenate string_content children, skipping quote tokens and any
	// prefix (r"", f"", b"").
	var b strings.Builder
	for i := uint(0); i < str.NamedChildCount(); i++ {
		if c := str.NamedChild(i); c != nil && c.Kind() == "string_content" {
			b.WriteString(c.Utf8Text(source))
		}
	}
	return strings.TrimSpace(b.String())
}

// rootModule returns the first dotted segment of an imported module path.
func rootModule(module string) string {
	module = strings.TrimSpace(module)
	if idx := strings.Index(module, "."); idx >= 0 {
		return module[:idx]
	}
	return module
}
