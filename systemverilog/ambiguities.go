package systemverilog

import (
	"github.com/ava12/svgrammar/grammar"
)

type ambiguity struct {
	strategy grammar.Strategy
	note     string
	set      []string
}

// Every choice point of the rule set whose alternatives may start with the same token
// is covered by one of these entries, the grammar does not build otherwise.
// The first entry covering a pair of alternatives decides the strategy of the choice.
var ambiguities = []ambiguity{
	// Names resolved by elaboration.
	{grammar.Deferred, "instantiated unit kind is known after elaboration",
		[]string{"module_identifier", "interface_identifier", "program_identifier", "checker_identifier", "bind_target_scope"}},
	{grammar.Deferred, "scope prefix names a package or a class",
		[]string{"package_identifier", "class_identifier"}},

	// Design units and items.
	{grammar.Parallel, "attributes may precede any description",
		[]string{"compiler_directive", "module_declaration", "interface_declaration", "program_declaration",
			"package_declaration", "package_item"}},
	{grammar.Parallel, "port list decides the header style",
		[]string{"module_nonansi_header", "module_ansi_header"}},
	{grammar.Parallel, "port list decides the header style",
		[]string{"interface_nonansi_header", "interface_ansi_header"}},
	{grammar.Parallel, "port list decides the header style",
		[]string{"program_nonansi_header", "program_ansi_header"}},
	{grammar.Parallel, "attributes may precede port declarations and items",
		[]string{"port_declaration", "non_port_module_item"}},
	{grammar.Parallel, "attributes may precede port declarations and items",
		[]string{"port_declaration", "non_port_interface_item"}},
	{grammar.Parallel, "attributes may precede port declarations and items",
		[]string{"port_declaration", "non_port_program_item"}},
	{grammar.Parallel, "attributes may precede nested units and items",
		[]string{"module_or_generate_item", "module_declaration", "interface_declaration", "program_declaration"}},
	{grammar.Parallel, "attributes may precede nested units and items",
		[]string{"interface_or_generate_item", "interface_declaration", "program_declaration"}},
	{grammar.Parallel, "items starting with an identifier",
		[]string{"module_instantiation", "package_or_generate_item_declaration", "concurrent_assertion_item"}},
	{grammar.Parallel, "checker items sharing a leading identifier or default",
		[]string{"checker_or_generate_item_declaration", "concurrent_assertion_item", "clocking_declaration"}},
	{grammar.Specificity, "a bare scope name is preferred to an instance path",
		[]string{"bind_target_scope", "bind_target_instance"}},
	{grammar.Parallel, "generate block label or generate item",
		[]string{"generate_item", "generate_block"}},

	// Ports and parameters.
	{grammar.Parallel, "user type or interface port",
		[]string{"data_type", "interface_port_header"}},
	{grammar.Parallel, "parameter type or parameter name",
		[]string{"data_type", "param_assignment"}},
	{grammar.Parallel, "parameter value is an expression or a type",
		[]string{"expression", "data_type"}},
	{grammar.Parallel, "system call argument is an expression or a type",
		[]string{"list_of_arguments", "data_type"}},
	{grammar.Parallel, "attributes may precede both connection styles",
		[]string{"ordered_port_connection", "named_port_connection"}},

	// Declarations.
	{grammar.Parallel, "virtual class or virtual interface variable",
		[]string{"class_declaration", "data_declaration"}},
	{grammar.Parallel, "class or package scope",
		[]string{"package_scope", "class_scope"}},
	{grammar.Parallel, "range or single size dimension",
		[]string{"constant_range", "constant_expression"}},
	{grammar.Parallel, "constructor call or an identifier named new",
		[]string{"dynamic_array_new", "class_new", "expression"}},
	{grammar.Parallel, "attributes may precede both declaration kinds",
		[]string{"block_item_declaration", "tf_port_declaration"}},
	{grammar.Parallel, "package import or DPI import",
		[]string{"package_import_declaration", "dpi_import_export"}},
	{grammar.Parallel, "package export or DPI export",
		[]string{"package_or_generate_item_declaration", "package_export_declaration"}},
	{grammar.Parallel, "qualifiers are shared by class members",
		[]string{"class_property", "class_method", "class_constraint", "class_declaration"}},
	{grammar.Parallel, "a function named new is a constructor",
		[]string{"class_constructor_declaration", "function_declaration"}},
	{grammar.Parallel, "a function prototype named new is a constructor prototype",
		[]string{"method_prototype", "class_constructor_prototype"}},
	{grammar.Parallel, "constraint or constraint block",
		[]string{"constraint_expression", "constraint_set"}},

	// Statements.
	{grammar.Parallel, "unique and priority prefix both statements",
		[]string{"case_statement", "conditional_statement"}},
	{grammar.Parallel, "statements starting with a variable reference",
		[]string{"blocking_assignment", "nonblocking_assignment", "inc_or_dec_expression", "subroutine_call_statement"}},
	{grammar.Parallel, "loop variable assignment or declaration",
		[]string{"variable_assignment", "for_variable_declaration"}},
	{grammar.Parallel, "loop step",
		[]string{"operator_assignment", "inc_or_dec_expression"}},
	{grammar.Parallel, "concurrent or immediate assertion",
		[]string{"concurrent_assertion_statement", "immediate_assertion_statement"}},

	// Expressions.
	{grammar.Parallel, "primaries sharing a leading token",
		[]string{"primary", "primary_literal", "subroutine_call", "cast", "assignment_pattern_expression",
			"concatenation", "multiple_concatenation", "empty_unpacked_array_concatenation"}},
	{grammar.Parallel, "constant primaries sharing a leading token",
		[]string{"constant_primary", "primary_literal", "subroutine_call", "constant_cast", "assignment_pattern_expression",
			"constant_concatenation", "constant_multiple_concatenation"}},
	{grammar.Parallel, "variable reference or increment",
		[]string{"primary", "inc_or_dec_expression"}},
	{grammar.Parallel, "pattern item or replication",
		[]string{"pattern_item", "constant_expression"}},
}

func defineAmbiguities(b *grammar.Builder, entries []ambiguity) {
	for _, a := range entries {
		b.Ambiguity(a.strategy, a.note, a.set...)
	}
}
