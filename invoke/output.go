package invoke

// VariantKind identifies one of the six multiplex entry points.
type VariantKind int

const (
	InvokeAll VariantKind = iota
	InvokeSubset
	InvokeAllEnumerated
	InvokeAllEnum
	InvokeEnumerated
	InvokeEnum
)

// Variants lists every kind in emission order.
var Variants = []VariantKind{
	InvokeAll,
	InvokeSubset,
	InvokeAllEnumerated,
	InvokeAllEnum,
	InvokeEnumerated,
	InvokeEnum,
}

var variantNames = []string{
	"invoke_all",
	"invoke_subset",
	"invoke_all_enumerated",
	"invoke_all_enum",
	"invoke_enumerated",
	"invoke_enum",
}

// BaseName is the unsuffixed function name of the variant.
func (k VariantKind) BaseName() string { return enumName(variantNames, int(k)) }

func (k VariantKind) String() string { return k.BaseName() }

func (k VariantKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// selects reports whether the variant consumes a selector sequence.
func (k VariantKind) selects() bool {
	return k == InvokeSubset || k == InvokeEnumerated || k == InvokeEnum
}

// enumerated reports whether the callback receives the member index.
func (k VariantKind) enumerated() bool {
	return k == InvokeAllEnumerated || k == InvokeEnumerated
}

// tagged reports whether the callback receives the member tag.
func (k VariantKind) tagged() bool {
	return k == InvokeAllEnum || k == InvokeEnum
}

// ArgKind is the role of one callback argument.
type ArgKind int

const (
	ArgIndex ArgKind = iota
	ArgTag
	ArgValue
)

var argKindNames = []string{"index", "tag", "value"}

func (k ArgKind) String() string { return enumName(argKindNames, int(k)) }

func (k ArgKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// CallbackArg is one callback parameter. Type is set for ArgValue only.
type CallbackArg struct {
	Kind ArgKind   `yaml:"kind"`
	Type *TypeExpr `yaml:"type,omitempty"`
}

// CallbackDecl is the consumer parameter added to a variant.
type CallbackDecl struct {
	Name string        `yaml:"name"`
	Args []CallbackArg `yaml:"args"`
}

// SelectItem is what a selector sequence yields.
type SelectItem int

const (
	SelectIndex SelectItem = iota
	SelectTag
)

var selectItemNames = []string{"index", "tag"}

func (s SelectItem) String() string { return enumName(selectItemNames, int(s)) }

func (s SelectItem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SelectorDecl is the sequence parameter of the selecting variants.
// Var names the loop variable bound to each item.
type SelectorDecl struct {
	Name string     `yaml:"name"`
	Var  string     `yaml:"var"`
	Item SelectItem `yaml:"item"`
}

// BodyMode is how a variant walks its steps.
type BodyMode int

const (
	// BodySequential runs every step once, in order.
	BodySequential BodyMode = iota
	// BodyDispatchIndex runs the step whose Index matches each selector item;
	// any other index is a runtime fault carrying Body.Fault.
	BodyDispatchIndex
	// BodyDispatchTag runs the step whose Tag matches each selector item.
	BodyDispatchTag
)

var bodyModeNames = []string{"sequential", "dispatch_index", "dispatch_tag"}

func (m BodyMode) String() string { return enumName(bodyModeNames, int(m)) }

func (m BodyMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// EmitMode is what a step hands to the callback after its call.
type EmitMode int

const (
	EmitNone EmitMode = iota
	EmitValue
	EmitIndex
	EmitTag
	EmitIndexValue
	EmitTagValue
)

var emitModeNames = []string{"none", "value", "index", "tag", "index_value", "tag_value"}

func (m EmitMode) String() string { return enumName(emitModeNames, int(m)) }

func (m EmitMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// CallArg is one argument at a call site.
type CallArg struct {
	Name      string        `yaml:"name"`
	Duplicate bool          `yaml:"duplicate,omitempty"`
	Clone     CloneStrategy `yaml:"clone,omitempty"`
	Variadic  bool          `yaml:"variadic,omitempty"`
}

// CallSite is one member invocation. Receiver is empty for members without
// a self parameter. Instantiate lists explicit type arguments, if required.
type CallSite struct {
	Member      string    `yaml:"member"`
	Owner       string    `yaml:"owner"`
	Receiver    string    `yaml:"receiver,omitempty"`
	Instantiate []string  `yaml:"instantiate,omitempty"`
	Args        []CallArg `yaml:"args,omitempty"`
}

// Step calls one member and dispatches its result.
type Step struct {
	Index int      `yaml:"index"`
	Tag   string   `yaml:"tag"`
	Call  CallSite `yaml:"call"`
	Emit  EmitMode `yaml:"emit"`
}

// Body is the ordered instruction list of a variant.
type Body struct {
	Mode  BodyMode `yaml:"mode"`
	Steps []Step   `yaml:"steps"`
	Fault string   `yaml:"fault,omitempty"`
}

// FunctionDecl is one generated entry point.
type FunctionDecl struct {
	Kind       VariantKind `yaml:"kind"`
	Name       string      `yaml:"name"`
	Visibility string      `yaml:"visibility,omitempty"`
	// Receiver is the group's self parameter; Params excludes it.
	Receiver *Param         `yaml:"receiver,omitempty"`
	Params   []Param        `yaml:"params,omitempty"`
	Callback *CallbackDecl  `yaml:"callback,omitempty"`
	Selector *SelectorDecl  `yaml:"selector,omitempty"`
	Generics []GenericParam `yaml:"generics,omitempty"`
	Body     Body           `yaml:"body"`
}

// MetadataDecl holds the member-count and member-list constants.
type MetadataDecl struct {
	Count      string   `yaml:"count"`
	List       string   `yaml:"list"`
	Visibility string   `yaml:"visibility,omitempty"`
	Value      int      `yaml:"value"`
	Names      []string `yaml:"names"`
}

// ConversionDecl names one conversion attached to the tag type.
type ConversionDecl struct {
	Name     string `yaml:"name"`
	Fallible bool   `yaml:"fallible,omitempty"`
}

// TagTypeDecl is the closed enumeration with one variant per member.
type TagTypeDecl struct {
	Name       string   `yaml:"name"`
	Visibility string   `yaml:"visibility,omitempty"`
	Variants   []string `yaml:"variants"`
	// FromStr maps a member name to its tag and fails with Mismatch otherwise.
	FromStr ConversionDecl `yaml:"from_str"`
	// AsStr maps a tag to its member name; total.
	AsStr ConversionDecl `yaml:"as_str"`
	// Iter yields every tag in member order.
	Iter     ConversionDecl `yaml:"iter"`
	Mismatch string         `yaml:"mismatch"`
}

// Output is the engine's only product for one group.
type Output struct {
	Owner     string            `yaml:"owner"`
	OwnerType string            `yaml:"owner_type,omitempty"`
	Suffix    string            `yaml:"suffix,omitempty"`
	Members   []Member          `yaml:"members"`
	Functions []FunctionDecl    `yaml:"functions"`
	Constants MetadataDecl      `yaml:"constants"`
	TagType   *TagTypeDecl      `yaml:"tag_type,omitempty"`
	Imports   map[string]string `yaml:"imports,omitempty"`
}

// Function returns the declaration of the given variant.
func (o *Output) Function(kind VariantKind) *FunctionDecl {
	for i := range o.Functions {
		if o.Functions[i].Kind == kind {
			return &o.Functions[i]
		}
	}
	return nil
}
