package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Снимки дерева и окружение (IO / проект)
	IOLoadFileError     Code = 4001
	IOSnapshotCorrupt   Code = 4002
	ProjManifestInvalid Code = 5001

	// Семантические
	// SemaBypass никогда не отправляется в Reporter: узел отравлен ошибкой потомка.
	SemaBypass                        Code = 3000
	SemaNameAlreadyDefined            Code = 3001
	SemaNameReservedForFunctions      Code = 3002
	SemaVariableNotFound              Code = 3003
	SemaFunctionNotFound              Code = 3004
	SemaTypeNotFound                  Code = 3005
	SemaNotAType                      Code = 3006
	SemaNotAValue                     Code = 3007
	SemaNamespaceNotFound             Code = 3008
	SemaUnknownGeneric                Code = 3009
	SemaGenericCountMismatch          Code = 3010
	SemaImplOnGeneric                 Code = 3011
	SemaInvalidSystem                 Code = 3012
	SemaIteratorInvalidSig            Code = 3013
	SemaInvalidAttrValue              Code = 3014
	SemaUnknownAttr                   Code = 3015
	SemaFunctionBodyReturnMismatch    Code = 3016
	SemaVariableHintMismatch          Code = 3017
	SemaVariableValueNotTuple         Code = 3018
	SemaTupleArityMismatch            Code = 3019
	SemaValueUpdateNotMut             Code = 3020
	SemaTypeMismatch                  Code = 3021
	SemaInOutValueIsntMut             Code = 3022
	SemaInOutValueWithoutInOutBinding Code = 3023
	SemaInOutBindingWithoutInOutValue Code = 3024
	SemaValueIsntIterator             Code = 3025
	SemaValueIsntMutableIterator      Code = 3026
	SemaDerefOnNonPtr                 Code = 3027
	SemaInvalidRange                  Code = 3028
	SemaInvalidBinaryOp               Code = 3029
	SemaInvalidUnaryOp                Code = 3030
	SemaIfElseMismatch                Code = 3031
	SemaIfMissingElse                 Code = 3032
	SemaMatchValueIsntEnum            Code = 3033
	SemaInvalidMatch                  Code = 3034
	SemaDuplicateMatch                Code = 3035
	SemaMissingMatch                  Code = 3036
	SemaStructLiteralOnNonStruct      Code = 3037
	SemaFieldDoesntExist              Code = 3038
	SemaMissingFields                 Code = 3039
	SemaDuplicateField                Code = 3040
	SemaFieldAccessOnNonContainer     Code = 3041
	SemaCallOnNonFunction             Code = 3042
	SemaFunctionArgsMismatch          Code = 3043
	SemaOutsideOfFunction             Code = 3044
	SemaContinueOutsideOfLoop         Code = 3045
	SemaBreakOutsideOfLoop            Code = 3046
	SemaReturnTypeMismatch            Code = 3047
	SemaInvalidCast                   Code = 3048
	SemaCantUnwrap                    Code = 3049
	SemaCantTry                       Code = 3050
	SemaFunctionDoesntReturnOption    Code = 3051
	SemaFunctionDoesntReturnResult    Code = 3052
	SemaResultErrMismatch             Code = 3053
	SemaCannotInferType               Code = 3054
	SemaNestingTooDeep                Code = 3055
	SemaConditionNotBool              Code = 3056
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                       "Unknown error",
		IOLoadFileError:                   "I/O load file error",
		IOSnapshotCorrupt:                 "Tree snapshot is corrupt or incompatible",
		ProjManifestInvalid:               "Invalid project manifest",
		SemaBypass:                        "Error already reported for a sub-expression",
		SemaNameAlreadyDefined:            "Name is already defined",
		SemaNameReservedForFunctions:      "Name is reserved for functions",
		SemaVariableNotFound:              "Variable not found",
		SemaFunctionNotFound:              "Function not found",
		SemaTypeNotFound:                  "Type not found",
		SemaNotAType:                      "Not a type",
		SemaNotAValue:                     "Not a value",
		SemaNamespaceNotFound:             "Namespace not found",
		SemaUnknownGeneric:                "Unknown generic parameter",
		SemaGenericCountMismatch:          "Wrong number of generic arguments",
		SemaImplOnGeneric:                 "Impl target is a bare generic parameter",
		SemaInvalidSystem:                 "System function can't be generic or a method",
		SemaIteratorInvalidSig:            "Invalid iterator function signature",
		SemaInvalidAttrValue:              "Attribute can't be applied here",
		SemaUnknownAttr:                   "Unknown attribute",
		SemaFunctionBodyReturnMismatch:    "Function body doesn't match the return type",
		SemaVariableHintMismatch:          "Value doesn't match the variable's type hint",
		SemaVariableValueNotTuple:         "Destructured value is not a tuple",
		SemaTupleArityMismatch:            "Tuple arity mismatch",
		SemaValueUpdateNotMut:             "Assignment to an immutable value",
		SemaTypeMismatch:                  "Type mismatch",
		SemaInOutValueIsntMut:             "Inout argument is not mutable",
		SemaInOutValueWithoutInOutBinding: "Argument marked inout for a non-inout parameter",
		SemaInOutBindingWithoutInOutValue: "Inout parameter requires an inout argument",
		SemaValueIsntIterator:             "Value is not an iterator",
		SemaValueIsntMutableIterator:      "Value is not a mutable iterator",
		SemaDerefOnNonPtr:                 "Dereference of a non-pointer",
		SemaInvalidRange:                  "Range bounds must be int",
		SemaInvalidBinaryOp:               "Invalid binary operation",
		SemaInvalidUnaryOp:                "Invalid unary operation",
		SemaIfElseMismatch:                "If and else branches have different types",
		SemaIfMissingElse:                 "If with a value needs an else branch",
		SemaMatchValueIsntEnum:            "Match value is not an enum",
		SemaInvalidMatch:                  "Match arm names an unknown variant",
		SemaDuplicateMatch:                "Variant matched twice",
		SemaMissingMatch:                  "Match is not exhaustive",
		SemaStructLiteralOnNonStruct:      "Struct literal on a non-struct type",
		SemaFieldDoesntExist:              "Field doesn't exist",
		SemaMissingFields:                 "Missing fields in struct literal",
		SemaDuplicateField:                "Field given twice in struct literal",
		SemaFieldAccessOnNonContainer:     "Field access on a non-container type",
		SemaCallOnNonFunction:             "Call of a non-function",
		SemaFunctionArgsMismatch:          "Wrong number of arguments",
		SemaOutsideOfFunction:             "Return outside of a function",
		SemaContinueOutsideOfLoop:         "Continue outside of a loop",
		SemaBreakOutsideOfLoop:            "Break outside of a loop",
		SemaReturnTypeMismatch:            "Returned value doesn't match the return type",
		SemaInvalidCast:                   "Invalid cast",
		SemaCantUnwrap:                    "Value can't be unwrapped",
		SemaCantTry:                       "Value can't be used with the try operator",
		SemaFunctionDoesntReturnOption:    "Enclosing function doesn't return an Option",
		SemaFunctionDoesntReturnResult:    "Enclosing function doesn't return a Result",
		SemaResultErrMismatch:             "Result error types differ",
		SemaCannotInferType:               "Cannot infer type",
		SemaNestingTooDeep:                "Expression nesting is too deep",
		SemaConditionNotBool:              "Condition is not a bool",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
