package components

// TSQueries matches component candidates in TypeScript, TSX and annotated
// JavaScript (parsed with the TSX grammar).
//
// The patterns are deliberately loose: they capture every function, arrow,
// annotated variable and derived class. Deciding which of them are React
// components (top-level, capitalised, typed first parameter, known wrapper
// type or base class) happens in the extractor, where the surrounding nodes
// are at hand.
//
// Each pattern captures:
//   - @component.name       - the declared name
//   - @component.definition - the whole declaration (location, doc comment)
//
// plus one of:
//   - @component.params     - formal_parameters of a function declaration
//   - @component.function   - arrow/function expression assigned to a variable
//   - @component.annotation - the variable's type annotation (React.FC<Props>)
//   - @component.heritage   - the class heritage (extends Component<Props>)
const TSQueries = `
; function Button(props: ButtonProps) { ... }
(function_declaration
  name: (identifier) @component.name
  parameters: (formal_parameters) @component.params
) @component.definition

; const Button = (props: ButtonProps) => ...
; const Button = function (props: ButtonProps) { ... }
(variable_declarator
  name: (identifier) @component.name
  value: [(arrow_function) (function_expression)] @component.function
) @component.definition

; const Button: React.FC<ButtonProps> = ...
(variable_declarator
  name: (identifier) @component.name
  type: (type_annotation) @component.annotation
) @component.definition

; class Button extends React.Component<ButtonProps> { ... }
(class_declaration
  name: (type_identifier) @component.name
  (class_heritage) @component.heritage
) @component.definition
`
