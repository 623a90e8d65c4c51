package ast

import (
	"atlas-lang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON or YAML serialization.
// Every node becomes a tagged union with a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Span, "name", n.Name, "body", stmtSlice(n.Body))

	// ---- Expressions ----
	case *IdentExpr:
		return m("Identifier", n.Span, "name", n.Name)
	case *NumberLiteral:
		return m("NumberLiteral", n.Span, "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *BoolLiteral:
		return m("BoolLiteral", n.Span, "value", n.Value)
	case *UnaryExpr:
		return m("UnaryOp", n.Span, "op", n.Op.String(), "operand", NodeToMap(n.Operand))
	case *BinaryExpr:
		return m("BinaryOp", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))

	// ---- Statements ----
	case *PrintStmt:
		return m("Print", n.Span, "expr", NodeToMap(n.Expr))
	case *IfStmt:
		result := m("If", n.Span,
			"condition", NodeToMap(n.Condition),
			"then", stmtSlice(n.Then))
		if n.Else != nil {
			result["else"] = stmtSlice(n.Else)
		}
		return result
	case *VarDeclStmt:
		result := m("VarDecl", n.Span, "name", n.Name, "type", n.Type.String())
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *WhileStmt:
		return m("While", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", stmtSlice(n.Body))
	case *AssignStmt:
		return m("Assign", n.Span, "name", n.Name, "value", NodeToMap(n.Value))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// m builds a node map with kind, span, and alternating key/value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
	}
	if !s.IsZero() {
		result["span"] = spanToMap(s)
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		result[kvs[i].(string)] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{"line": s.Start.Line, "column": s.Start.Column, "offset": s.Start.Offset},
		"end":   map[string]interface{}{"line": s.End.Line, "column": s.End.Column, "offset": s.End.Offset},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}
