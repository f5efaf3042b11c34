package invoke

// Fixed identifiers of the generated artifacts.
const (
	MethodCountBase = "METHOD_COUNT"
	MethodListBase  = "METHOD_LIST"
	TagTypeFragment = "_invoke_impl_enum"
	FromStrBase     = "try_from_str"
	AsStrBase       = "as_str"
	IterBase        = "iter"

	CallbackName = "consumer"
	SelectorName = "invoke_impl_iter"
	SelectorVar  = "invoke_impl_i"

	FaultMessage    = "Iter contains invalid function index!"
	MismatchMessage = "Input str does not match any enums in Self!"
)

// reservedParamNames may not be used by member parameters, since the
// generated functions declare them alongside the group's parameters.
var reservedParamNames = map[string]bool{
	CallbackName: true,
	SelectorName: true,
	SelectorVar:  true,
}

// Namer computes every generated identifier of one generation pass.
// Each name is base, or base + "_" + suffix when a suffix is configured.
type Namer struct {
	suffix string
}

// NewNamer returns a Namer for the optional suffix.
func NewNamer(suffix *string) Namer {
	if suffix == nil {
		return Namer{}
	}
	return Namer{suffix: *suffix}
}

// Name applies the suffix to base.
func (n Namer) Name(base string) string {
	if n.suffix == "" {
		return base
	}
	return base + "_" + n.suffix
}

// Variant names the function of the given kind.
func (n Namer) Variant(kind VariantKind) string {
	return n.Name(kind.BaseName())
}

// MethodCount names the member-count constant.
func (n Namer) MethodCount() string { return n.Name(MethodCountBase) }

// MethodList names the member-list constant.
func (n Namer) MethodList() string { return n.Name(MethodListBase) }

// TagType names the tag type of owner.
func (n Namer) TagType(owner string) string {
	return n.Name(owner + TagTypeFragment)
}

// FromStr, AsStr and Iter name the tag type conversions.
func (n Namer) FromStr() string { return n.Name(FromStrBase) }

func (n Namer) AsStr() string { return n.Name(AsStrBase) }

func (n Namer) Iter() string { return n.Name(IterBase) }
