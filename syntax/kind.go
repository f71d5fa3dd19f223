package syntax

// Kind identifies a grammar production. Child layouts are fixed per kind; an
// absent optional child is a Missing node, so positions never shift.
type Kind uint8

const (
	Missing Kind = iota
	Token
	List
	ListItem // item, separator
	Error    // skipped tokens

	Script                     // markup, declarations, eof
	FileAttributeSpecification // <<, file, :, attributes, >, >
	AttributeSpecification     // <<, attributes, >, >
	Attribute                  // name, (, arguments, )

	ClassishDeclaration // attributes, modifiers, keyword, name, type parameters, extends, extends list, implements, implements list, where, body
	ClassishBody        // {, elements, }
	EnumDeclaration     // attributes, modifiers, enum, name, :, base, as, constraint, {, enumerators, }
	Enumerator          // name, =, value, ;
	FunctionDeclaration // attributes, modifiers, function, name, type parameters, (, parameters, ), :, return type, where, body
	ConstDeclaration    // const, type, declarators, ;
	ConstantDeclarator  // name, =, initializer
	AliasDeclaration    // attributes, modifiers, keyword, name, type parameters, as, constraint, =, type, ;
	ModuleDeclaration   // new, module, name, {, }

	TypeParameters  // <, parameters, >
	TypeParameter   // variance, name, constraints
	TypeConstraint  // as/super, type
	WhereClause     // where, constraints
	WhereConstraint // left, operator, right

	MethodishDeclaration         // same layout as FunctionDeclaration; body may be ;
	PropertyDeclaration          // attributes, modifiers, type, declarators, ;
	PropertyDeclarator           // variable, =, initializer
	ClassConstDeclaration        // attributes, modifiers, const, type, declarators, ;
	TypeConstDeclaration         // attributes, modifiers, const, type, name, as, constraint, =, type, ;
	TraitUse                     // use, names, ;
	RequireClause                // require, kind, name, ;
	XHPClassAttributeDeclaration // attribute, attributes, ;
	XHPClassAttribute            // type, name, =, initializer
	Parameter                    // attributes, visibility, type, ..., variable, =, default

	SimpleTypeSpecifier   // name
	GenericTypeSpecifier  // name, type arguments
	TypeArguments         // <, types, >
	NullableTypeSpecifier // ?, type
	TupleTypeSpecifier    // (, types, )

	CompoundStatement   // {, statements, }
	ExpressionStatement // expression, ;
	ReturnStatement     // return, expression, ;
	EchoStatement       // echo, expressions, ;
	IfStatement         // if, (, condition, ), statement, else clause
	ElseClause          // else, statement

	LiteralExpression           // token
	VariableExpression          // token
	NameExpression              // token
	ParenthesizedExpression     // (, expression, )
	PrefixUnaryExpression       // operator, operand
	BinaryExpression            // left, operator, right
	FunctionCallExpression      // receiver, (, arguments, )
	MemberSelectionExpression   // object, ->, name
	ScopeResolutionExpression   // qualifier, ::, name
	SubscriptExpression         // receiver, [, index, ]
	ObjectCreationExpression    // new, class, (, arguments, )
	VectorLiteral               // vec, [, elements, ]
	ShapeLiteral                // shape, (, fields, )
	FieldInitializer            // name, =>, value
	XHPExpression               // open, body, close
	XHPOpen                     // <, name, attributes, > or />
	XHPClose                    // </, name, >
	XHPSimpleAttribute          // name, =, value
	XHPSpreadAttribute          // {, ..., expression, }
	XHPBracedExpression         // {, expression, }
	kindCount
)

var kindNames = [kindCount]string{
	Missing:                      "missing",
	Token:                        "token",
	List:                         "list",
	ListItem:                     "list_item",
	Error:                        "error",
	Script:                       "script",
	FileAttributeSpecification:   "file_attribute_specification",
	AttributeSpecification:       "attribute_specification",
	Attribute:                    "attribute",
	ClassishDeclaration:          "classish_declaration",
	ClassishBody:                 "classish_body",
	EnumDeclaration:              "enum_declaration",
	Enumerator:                   "enumerator",
	FunctionDeclaration:          "function_declaration",
	ConstDeclaration:             "const_declaration",
	ConstantDeclarator:           "constant_declarator",
	AliasDeclaration:             "alias_declaration",
	ModuleDeclaration:            "module_declaration",
	TypeParameters:               "type_parameters",
	TypeParameter:                "type_parameter",
	TypeConstraint:               "type_constraint",
	WhereClause:                  "where_clause",
	WhereConstraint:              "where_constraint",
	MethodishDeclaration:         "methodish_declaration",
	PropertyDeclaration:          "property_declaration",
	PropertyDeclarator:           "property_declarator",
	ClassConstDeclaration:        "class_const_declaration",
	TypeConstDeclaration:         "type_const_declaration",
	TraitUse:                     "trait_use",
	RequireClause:                "require_clause",
	XHPClassAttributeDeclaration: "xhp_class_attribute_declaration",
	XHPClassAttribute:            "xhp_class_attribute",
	Parameter:                    "parameter",
	SimpleTypeSpecifier:          "simple_type_specifier",
	GenericTypeSpecifier:         "generic_type_specifier",
	TypeArguments:                "type_arguments",
	NullableTypeSpecifier:        "nullable_type_specifier",
	TupleTypeSpecifier:           "tuple_type_specifier",
	CompoundStatement:            "compound_statement",
	ExpressionStatement:          "expression_statement",
	ReturnStatement:              "return_statement",
	EchoStatement:                "echo_statement",
	IfStatement:                  "if_statement",
	ElseClause:                   "else_clause",
	LiteralExpression:            "literal_expression",
	VariableExpression:           "variable_expression",
	NameExpression:               "name_expression",
	ParenthesizedExpression:      "parenthesized_expression",
	PrefixUnaryExpression:        "prefix_unary_expression",
	BinaryExpression:             "binary_expression",
	FunctionCallExpression:       "function_call_expression",
	MemberSelectionExpression:    "member_selection_expression",
	ScopeResolutionExpression:    "scope_resolution_expression",
	SubscriptExpression:          "subscript_expression",
	ObjectCreationExpression:     "object_creation_expression",
	VectorLiteral:                "vector_literal",
	ShapeLiteral:                 "shape_literal",
	FieldInitializer:             "field_initializer",
	XHPExpression:                "xhp_expression",
	XHPOpen:                      "xhp_open",
	XHPClose:                     "xhp_close",
	XHPSimpleAttribute:           "xhp_simple_attribute",
	XHPSpreadAttribute:           "xhp_spread_attribute",
	XHPBracedExpression:          "xhp_braced_expression",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
