package parse

// ParamType is the type keyword of a deffunc or func parameter.
type ParamType int

const (
	ParamNone ParamType = iota
	ParamInt
	ParamDouble
	ParamStr
	ParamLabel
	ParamWStr
	ParamFloat
	ParamSPtr
	ParamWPtr
	ParamVar
	ParamArray
	ParamModVar
	ParamComObj
	ParamLocal
	ParamNullPtr
	ParamBmscr
	ParamPRefStr
	ParamPExInfo
	ParamHwnd
	ParamHdc
	ParamHInst
)

var paramTypeNames = map[string]ParamType{
	"int":     ParamInt,
	"double":  ParamDouble,
	"str":     ParamStr,
	"label":   ParamLabel,
	"wstr":    ParamWStr,
	"float":   ParamFloat,
	"sptr":    ParamSPtr,
	"wptr":    ParamWPtr,
	"var":     ParamVar,
	"array":   ParamArray,
	"modvar":  ParamModVar,
	"comobj":  ParamComObj,
	"local":   ParamLocal,
	"nullptr": ParamNullPtr,
	"bmscr":   ParamBmscr,
	"prefstr": ParamPRefStr,
	"pexinfo": ParamPExInfo,
	"hwnd":    ParamHwnd,
	"hdc":     ParamHdc,
	"hinst":   ParamHInst,
}

// ParseParamType looks up a type keyword.
func ParseParamType(s string) (ParamType, bool) {
	t, ok := paramTypeNames[s]
	return t, ok
}

func (t ParamType) String() string {
	for name, v := range paramTypeNames {
		if v == t {
			return name
		}
	}
	return ""
}

// ParamCategory collapses parameter types by how arguments are passed.
type ParamCategory int

const (
	ByValue ParamCategory = iota
	ByRef
	Local
	Auto
)

func (c ParamCategory) String() string {
	switch c {
	case ByRef:
		return "ByRef"
	case Local:
		return "Local"
	case Auto:
		return "Auto"
	}
	return "ByValue"
}

func (t ParamType) Category() ParamCategory {
	switch t {
	case ParamVar, ParamArray, ParamModVar, ParamComObj:
		return ByRef
	case ParamLocal:
		return Local
	case ParamNullPtr, ParamBmscr, ParamPRefStr, ParamPExInfo, ParamHwnd, ParamHdc, ParamHInst:
		return Auto
	}
	return ByValue
}

// TakesArg reports whether the caller passes an argument for the parameter.
func (t ParamType) TakesArg() bool {
	switch t.Category() {
	case ByValue, ByRef:
		return true
	}
	return false
}
