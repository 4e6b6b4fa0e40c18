package systemverilog

import (
	"github.com/ava12/svgrammar/grammar"
)

// role is an identifier role: a name the grammar gives to an identifier by its position.
type role struct {
	name       string
	confusable []string
}

// Roles are views over the identifier rule. A role with confusable roles marks a position
// where the same identifier may name any of them, only elaboration can tell which one.
var roles = []role{
	{name: "module_identifier"},
	{name: "interface_identifier"},
	{name: "program_identifier"},
	{name: "checker_identifier"},
	{name: "package_identifier"},
	{name: "class_identifier"},
	{name: "bind_target_scope", confusable: []string{"module_identifier", "interface_identifier"}},

	{name: "port_identifier"},
	{name: "parameter_identifier"},
	{name: "net_identifier"},
	{name: "variable_identifier"},
	{name: "type_identifier"},
	{name: "net_type_identifier"},
	{name: "enum_identifier"},
	{name: "genvar_identifier"},
	{name: "index_variable_identifier"},
	{name: "signal_identifier"},

	{name: "function_identifier"},
	{name: "task_identifier"},
	{name: "tf_identifier"},
	{name: "c_identifier"},
	{name: "let_identifier"},
	{name: "formal_port_identifier"},
	{name: "property_identifier"},
	{name: "sequence_identifier"},
	{name: "constraint_identifier"},

	{name: "instance_identifier"},
	{name: "modport_identifier"},
	{name: "clocking_identifier"},
	{name: "block_identifier"},
	{name: "generate_block_identifier"},
	{name: "text_macro_identifier"},
	{name: "attr_name"},
}

func defineRoles(b *grammar.Builder) {
	for _, r := range roles {
		b.Role(r.name, "identifier", r.confusable...)
	}
}
