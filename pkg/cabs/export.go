package cabs

// ToMap projects a node into its canonical map form:
//
//	{"type": <kind name>, "attributes": {...}, "children": [...]}
//
// Attribute values are nested projections, scalars, lists of either, or nil
// for absent optional parts. The projection only reads the tree, so repeated
// calls on the same node yield equal maps.
func ToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	attrs := map[string]any{}
	children := []any{}

	switch v := n.(type) {
	case *Program:
		return ToMap(*v)
	case *Block:
		return ToMap(*v)
	case Program:
		for _, d := range v.Definitions {
			children = append(children, ToMap(d))
		}
	case Block:
		for _, s := range v.Items {
			children = append(children, ToMap(s))
		}
	case FunctionDecl:
		params := make([]any, 0, len(v.Params))
		for _, p := range v.Params {
			params = append(params, map[string]any{"name": p.Name, "type": p.Type})
		}
		attrs["name"] = v.Name
		attrs["return_type"] = v.ReturnType
		attrs["parameters"] = params
		attrs["body"] = blockMap(v.Body)
	case VarDecl:
		attrs["name"] = v.Name
		attrs["var_type"] = v.VarType
		attrs["initializer"] = optional(v.Initializer)
	case AssignStmt:
		attrs["statement_type"] = "assignment"
		attrs["target"] = v.Target
		attrs["operator"] = v.Op
		attrs["value"] = optional(v.Value)
	case CallStmt:
		attrs["statement_type"] = "function_call"
		attrs["function_name"] = v.Name
		attrs["arguments"] = exprList(v.Args)
	case IncDecStmt:
		if v.Prefix {
			attrs["statement_type"] = "prefix_expression"
		} else {
			attrs["statement_type"] = "postfix_expression"
		}
		attrs["target"] = v.Target
		attrs["operator"] = v.Op
	case EmptyStmt:
		attrs["statement_type"] = "empty"
	case Binary:
		attrs["operator"] = v.Op
		attrs["left"] = optional(v.Left)
		attrs["right"] = optional(v.Right)
	case Unary:
		attrs["operator"] = v.Op
		attrs["operand"] = optional(v.Operand)
		if v.Prefix {
			attrs["is_prefix"] = true
		}
	case Assignment:
		attrs["operator"] = v.Op
		attrs["left"] = optional(v.Left)
		attrs["right"] = optional(v.Right)
	case Literal:
		attrs["literal_type"] = v.Type.String()
		switch v.Type {
		case LitInt:
			attrs["value"] = v.Int
		case LitFloat:
			attrs["value"] = v.Float
		default:
			attrs["value"] = v.Text
		}
	case Identifier:
		attrs["name"] = v.Name
	case Call:
		attrs["function_name"] = v.Name
		attrs["arguments"] = exprList(v.Args)
	case Conditional:
		attrs["condition"] = optional(v.Cond)
		attrs["true_expression"] = optional(v.Then)
		attrs["false_expression"] = optional(v.Else)
	case Cast:
		attrs["target_type"] = v.TargetType
		attrs["expression"] = optional(v.Expr)
	case Sizeof:
		if v.Expr != nil {
			attrs["expression"] = ToMap(v.Expr)
			break
		}
		dims := make([]any, 0, len(v.Dims))
		for _, d := range v.Dims {
			if d == UnsizedDim {
				dims = append(dims, nil)
			} else {
				dims = append(dims, d)
			}
		}
		attrs["target_type"] = v.TargetType
		attrs["array_dimensions"] = dims
	case Postfix:
		attrs["operator"] = v.Op
		attrs["operand"] = optional(v.Operand)
	case If:
		attrs["condition"] = optional(v.Cond)
		attrs["then_branch"] = optional(v.Then)
		attrs["else_branch"] = optional(v.Else)
	case While:
		attrs["condition"] = optional(v.Cond)
		attrs["body"] = optional(v.Body)
	case For:
		attrs["initialization"] = optional(v.Init)
		attrs["condition"] = optional(v.Cond)
		attrs["increment"] = optional(v.Post)
		attrs["body"] = optional(v.Body)
	case DoWhile:
		attrs["body"] = optional(v.Body)
		attrs["condition"] = optional(v.Cond)
	case Switch:
		cases := make([]any, 0, len(v.Cases))
		for _, c := range v.Cases {
			cases = append(cases, ToMap(c))
		}
		attrs["expression"] = optional(v.Expr)
		attrs["cases"] = cases
		if v.Default != nil {
			attrs["default_case"] = ToMap(*v.Default)
		} else {
			attrs["default_case"] = nil
		}
	case Case:
		attrs["value"] = optional(v.Value)
		attrs["statements"] = stmtList(v.Stmts)
	case Default:
		attrs["statements"] = stmtList(v.Stmts)
	case Goto:
		attrs["label"] = v.Label
	case Return:
		attrs["expression"] = optional(v.Expr)
	case Break, Continue:
	}

	return map[string]any{
		"type":       n.Kind().String(),
		"attributes": attrs,
		"children":   children,
	}
}

// optional keeps absent parts as a literal nil rather than a nil map
func optional(n Node) any {
	if n == nil {
		return nil
	}
	return ToMap(n)
}

func blockMap(b *Block) any {
	if b == nil {
		return nil
	}
	return ToMap(*b)
}

func exprList(es []Expr) []any {
	out := make([]any, 0, len(es))
	for _, e := range es {
		out = append(out, ToMap(e))
	}
	return out
}

func stmtList(ss []Stmt) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, ToMap(s))
	}
	return out
}
