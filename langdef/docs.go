/*
Package langdef reads textual rule descriptions and adds them to a grammar.Builder.

Rules are described using language that resembles EBNF. Self-definition of this language is:
*/
//  $space = /[ \r\n\t\f]+/; $comment = /#[^\n]*/;
//  $string = /(?:"(?:[^\\"]|\\.)*")|(?:'[^']*')/;
//  $name = /[a-zA-Z_][a-zA-Z_0-9]*/;
//  $dir = /![a-z]+/;
//  $token-name = /\$[a-zA-Z_][a-zA-Z_0-9]*/;
//  $level = /@[a-zA-Z_][a-zA-Z_0-9]*/;
//  $op = /[(){}\[\]=|,;]/;
//
//  description = {directive | rule};
//  directive = start-directive | recover-directive;
//  start-directive = '!start', $name, ';';
//  recover-directive = '!recover', $name, {$string}, ';';
//  rule = $name, '=', sequence, ';';
//  sequence = item, {',', item};
//  item = variant, {'|', variant}; # NB!: foo | bar, baz is equal to (foo|bar), baz
//  variant = [$level], ($name | $token-name | $string | group | optional | repeat);
//  group = '(', sequence, ')';
//  optional = '[', sequence, ']'; # match 0 or 1 time
//  repeat = '{', sequence, '}';   # match 0 or more times
/*
Description must be a valid UTF-8 text. Line breaks are insignificant.
Description may contain line comments starting with # and ending with line feed.

String literal is any sequence of symbols delimited with either single (') or double (") quote signs.
Double quoted strings use Go escape sequences, single quoted strings are taken as is.
Empty literals are not allowed.

Name is a sequence of latin letters, digits, and underscores, starting with letter or underscore.
Names are case-sensitive. Names starting with underscore denote hidden rules
whose nodes are spliced into the parent node.

Token kind is a name preceded by $, it matches any token of that lexical category.

Level tag is a name preceded by @, it attaches a precedence level to the following variant.
The level must be added to the builder before the description is parsed, e.g.
   b.Level(16, "unary", grammar.AssocNone)
   unary_expression = @unary (unary_operator, primary);

Rule definition has a form:
   rule-name = list ;

A list consists of one or more comma-separated items. An item is one or more variants separated by pipe (|) symbol.
NB: foo | bar, baz is the same as (foo | bar), baz.

Rules may refer to rules defined later or in other descriptions added to the same builder.
Each rule must be defined exactly once, e.g.
   foo = bar, baz; foo = qux; # error: foo already defined
   foo = (bar, baz) | qux; # correct

!start directive sets the start rule. By default the first defined rule is the start one.

!recover directive enables tolerant recovery for every repetition of the named rule.
A malformed item is skipped up to and including the first ";" or up to the first listed literal, e.g.
   !recover module_item "endmodule";

Operator alternatives (left and right associative binary operators) cannot be described in text,
they are added with grammar.Left and grammar.Right combinators.
*/
package langdef
