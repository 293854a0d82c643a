package builder

// Schema selects which wire-format literal and numeric-syntax rules
// CreateScalarFromText applies (spec §4.J step 2–5). Each schema is a
// standalone table rather than one combined regex, generalizing the
// teacher's single hard-coded resolve table into the five schemas plus
// Auto the spec calls for — registering a new schema never touches an
// existing one.
type Schema int

const (
	// SchemaAuto defers to the document's own directives; builder.New
	// callers that never attach a document (no decoder in the loop) get
	// Schema12Core's rules, the safest default among the four.
	SchemaAuto Schema = iota
	Schema11
	Schema12Failsafe
	Schema12Core
	Schema12JSON
	SchemaJSON
)

func (s Schema) String() string {
	switch s {
	case SchemaAuto:
		return "auto"
	case Schema11:
		return "yaml-1.1"
	case Schema12Failsafe:
		return "yaml-1.2-failsafe"
	case Schema12Core:
		return "yaml-1.2-core"
	case Schema12JSON:
		return "yaml-1.2-json"
	case SchemaJSON:
		return "json"
	default:
		return "unknown"
	}
}

func (s Schema) resolved() Schema {
	if s == SchemaAuto {
		return Schema12Core
	}
	return s
}

// literalTable is the closed list of recognized Null/Bool/Float-infinity
// spellings for one schema (spec §4.J step 2).
type literalTable struct {
	null      map[string]bool
	boolTrue  map[string]bool
	boolFalse map[string]bool
	posInf    map[string]bool
	negInf    map[string]bool
	nan       map[string]bool
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var tables = map[Schema]literalTable{
	Schema11: {
		null: setOf("", "~", "null", "Null", "NULL"),
		boolTrue: setOf(
			"true", "True", "TRUE",
			"y", "Y", "yes", "Yes", "YES",
			"on", "On", "ON",
		),
		boolFalse: setOf(
			"false", "False", "FALSE",
			"n", "N", "no", "No", "NO",
			"off", "Off", "OFF",
		),
		posInf: setOf(".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF"),
		negInf: setOf("-.inf", "-.Inf", "-.INF"),
		nan:    setOf(".nan", ".NaN", ".NAN"),
	},
	Schema12Failsafe: {
		// Failsafe schema resolves nothing implicitly; every scalar is a
		// string unless force_type says otherwise. Empty tables make every
		// literal-table lookup below miss, and CreateScalarFromText skips
		// the numeric scan for this schema (its s != Schema12Failsafe
		// guard).
	},
	Schema12Core: {
		null:      setOf("", "~", "null", "Null", "NULL"),
		boolTrue:  setOf("true", "True", "TRUE"),
		boolFalse: setOf("false", "False", "FALSE"),
		posInf:    setOf(".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF"),
		negInf:    setOf("-.inf", "-.Inf", "-.INF"),
		nan:       setOf(".nan", ".NaN", ".NAN"),
	},
	Schema12JSON: {
		null:      setOf("null"),
		boolTrue:  setOf("true"),
		boolFalse: setOf("false"),
		posInf:    map[string]bool{},
		negInf:    map[string]bool{},
		nan:       map[string]bool{},
	},
	SchemaJSON: {
		null:      setOf("null"),
		boolTrue:  setOf("true"),
		boolFalse: setOf("false"),
		posInf:    map[string]bool{},
		negInf:    map[string]bool{},
		nan:       map[string]bool{},
	},
}

// numericRules controls integer/float scanning (spec §4.J step 3–4).
type numericRules struct {
	allowPlusSign bool
	allowHexOctal bool
}

func rulesFor(s Schema) numericRules {
	switch s {
	case Schema11, Schema12Core, Schema12Failsafe:
		return numericRules{allowPlusSign: true, allowHexOctal: true}
	default: // Schema12JSON, SchemaJSON
		return numericRules{allowPlusSign: false, allowHexOctal: false}
	}
}
