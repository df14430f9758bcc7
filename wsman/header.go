package wsman

import "strconv"

// MustUnderstandValue pairs an element's text content with the SOAP 1.2
// mustUnderstand attribute. Action, ResourceURI, MaxEnvelopeSize, and
// every Selector require this attribute; losing it causes the server to
// reject the request.
type MustUnderstandValue struct {
	MustUnderstand bool   `xml:"s:mustUnderstand,attr"`
	Value          string `xml:",chardata"`
}

// Understood wraps v with mustUnderstand=true.
func Understood(v string) MustUnderstandValue {
	return MustUnderstandValue{MustUnderstand: true, Value: v}
}

// LangValue represents an empty element carrying only an xml:lang
// attribute and an explicit mustUnderstand attribute (used by Locale and
// DataLocale, both mustUnderstand=false).
type LangValue struct {
	MustUnderstand bool   `xml:"s:mustUnderstand,attr"`
	Lang           string `xml:"xml:lang,attr"`
}

// NotUnderstood builds a LangValue with mustUnderstand explicitly false.
func NotUnderstood(lang string) *LangValue {
	return &LangValue{MustUnderstand: false, Lang: lang}
}

// ReplyTo represents the WS-Addressing ReplyTo element. Its Address child
// is always mustUnderstand=true.
type ReplyTo struct {
	Address MustUnderstandValue `xml:"a:Address"`
}

// Selector represents a single w:Selector entry in a SelectorSet. Every
// Selector carries mustUnderstand=true.
type Selector struct {
	Name           string `xml:"Name,attr"`
	MustUnderstand bool   `xml:"s:mustUnderstand,attr"`
	Value          string `xml:",chardata"`
}

// NewSelector builds a Selector with mustUnderstand=true set.
func NewSelector(name, value string) Selector {
	return Selector{Name: name, MustUnderstand: true, Value: value}
}

// SelectorSet contains the selectors that target a specific resource
// instance (e.g. ShellId).
type SelectorSet struct {
	Selectors []Selector `xml:"w:Selector"`
}

// Option represents a single w:Option entry in an OptionSet.
type Option struct {
	Name       string `xml:"Name,attr"`
	MustComply bool   `xml:"MustComply,attr,omitempty"`
	Value      string `xml:",chardata"`
}

// OptionSet contains operation-specific options (e.g. WINRS_NOPROFILE).
type OptionSet struct {
	Options []Option `xml:"w:Option"`
}

// Header represents the SOAP header: the WS-Addressing block plus the
// WS-Management block.
type Header struct {
	// WS-Addressing headers.
	Action    MustUnderstandValue `xml:"a:Action"`
	To        string              `xml:"a:To,omitempty"`
	MessageID string              `xml:"a:MessageID,omitempty"`
	ReplyTo   *ReplyTo            `xml:"a:ReplyTo,omitempty"`

	// WS-Management headers.
	ResourceURI      MustUnderstandValue  `xml:"w:ResourceURI"`
	MaxEnvelopeSize  *MustUnderstandValue `xml:"w:MaxEnvelopeSize,omitempty"`
	OperationTimeout string               `xml:"w:OperationTimeout,omitempty"`
	Locale           *LangValue           `xml:"w:Locale,omitempty"`
	DataLocale       *LangValue           `xml:"p:DataLocale,omitempty"`

	// Shell-specific headers.
	SelectorSet *SelectorSet `xml:"w:SelectorSet,omitempty"`
	OptionSet   *OptionSet   `xml:"w:OptionSet,omitempty"`
}

// HeaderParams carries the values the header assembler needs to build the
// standard WS-Addressing + WS-Management header block for one operation.
type HeaderParams struct {
	Action      string
	To          string
	ResourceURI string
	MessageID   string // "uuid:" + uppercase fresh UUIDv4; see NewMessageID.
	Config      Config
}

// NewHeader assembles the standard header block: To, ReplyTo (anonymous,
// mustUnderstand=true), MaxEnvelopeSize (mustUnderstand=true), MessageID,
// Locale/DataLocale (mustUnderstand=false), and OperationTimeout. Action
// and ResourceURI are always mustUnderstand=true.
func NewHeader(p HeaderParams) *Header {
	return &Header{
		Action:           Understood(p.Action),
		To:               p.To,
		MessageID:        p.MessageID,
		ReplyTo:          &ReplyTo{Address: Understood(AddressAnonymous)},
		ResourceURI:      Understood(p.ResourceURI),
		MaxEnvelopeSize:  &MustUnderstandValue{MustUnderstand: true, Value: strconv.Itoa(p.Config.MaxEnvelopeSizeOrDefault())},
		OperationTimeout: OperationTimeout(p.Config.OperationTimeoutSeconds()),
		Locale:           NotUnderstood(p.Config.LocaleOrDefault()),
		DataLocale:       NotUnderstood(p.Config.LocaleOrDefault()),
	}
}

// WithSelector appends a mustUnderstand=true selector to the header's
// SelectorSet, creating it if necessary.
func (h *Header) WithSelector(name, value string) *Header {
	if h.SelectorSet == nil {
		h.SelectorSet = &SelectorSet{}
	}
	h.SelectorSet.Selectors = append(h.SelectorSet.Selectors, NewSelector(name, value))
	return h
}

// WithSelectors appends each selector in sels to the header's SelectorSet.
func (h *Header) WithSelectors(sels []Selector) *Header {
	if len(sels) == 0 {
		return h
	}
	if h.SelectorSet == nil {
		h.SelectorSet = &SelectorSet{}
	}
	h.SelectorSet.Selectors = append(h.SelectorSet.Selectors, sels...)
	return h
}

// WithOption appends an option to the header's OptionSet, creating it if
// necessary.
func (h *Header) WithOption(name, value string) *Header {
	if h.OptionSet == nil {
		h.OptionSet = &OptionSet{}
	}
	h.OptionSet.Options = append(h.OptionSet.Options, Option{Name: name, Value: value})
	return h
}

// WithOptionMustComply appends an option marked MustComply="true" (used for
// protocolversion negotiation).
func (h *Header) WithOptionMustComply(name, value string) *Header {
	if h.OptionSet == nil {
		h.OptionSet = &OptionSet{}
	}
	h.OptionSet.Options = append(h.OptionSet.Options, Option{Name: name, MustComply: true, Value: value})
	return h
}

// MergeHeaders unions two header blocks into a new one. Scalar fields from
// extra take precedence when both set them (extra is "more specific" than
// base); SelectorSet and OptionSet are unioned rather than replaced.
// Selectors with the same Name are merged with their mustUnderstand flags
// OR'd, so a mustUnderstand=true attribute present on either side's
// Selector survives the merge (a last-wins merge would silently drop
// mustUnderstand flags); the Options of both sides are concatenated.
func MergeHeaders(base, extra *Header) *Header {
	if base == nil {
		return extra
	}
	if extra == nil {
		return base
	}

	merged := *base

	if extra.Action.Value != "" {
		merged.Action = orMustUnderstand(base.Action, extra.Action)
	}
	if extra.To != "" {
		merged.To = extra.To
	}
	if extra.MessageID != "" {
		merged.MessageID = extra.MessageID
	}
	if extra.ReplyTo != nil {
		merged.ReplyTo = extra.ReplyTo
	}
	if extra.ResourceURI.Value != "" {
		merged.ResourceURI = orMustUnderstand(base.ResourceURI, extra.ResourceURI)
	}
	if extra.MaxEnvelopeSize != nil {
		merged.MaxEnvelopeSize = extra.MaxEnvelopeSize
	}
	if extra.OperationTimeout != "" {
		merged.OperationTimeout = extra.OperationTimeout
	}
	if extra.Locale != nil {
		merged.Locale = extra.Locale
	}
	if extra.DataLocale != nil {
		merged.DataLocale = extra.DataLocale
	}

	merged.SelectorSet = mergeSelectorSets(base.SelectorSet, extra.SelectorSet)
	merged.OptionSet = mergeOptionSets(base.OptionSet, extra.OptionSet)

	return &merged
}

// orMustUnderstand keeps mustUnderstand=true if either side set it.
func orMustUnderstand(a, b MustUnderstandValue) MustUnderstandValue {
	value := b.Value
	if value == "" {
		value = a.Value
	}
	return MustUnderstandValue{MustUnderstand: a.MustUnderstand || b.MustUnderstand, Value: value}
}

func mergeSelectorSets(a, b *SelectorSet) *SelectorSet {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	byName := make(map[string]int, len(a.Selectors))
	merged := make([]Selector, len(a.Selectors))
	copy(merged, a.Selectors)
	for i, s := range merged {
		byName[s.Name] = i
	}

	for _, s := range b.Selectors {
		if i, ok := byName[s.Name]; ok {
			merged[i].MustUnderstand = merged[i].MustUnderstand || s.MustUnderstand
			if merged[i].Value == "" {
				merged[i].Value = s.Value
			}
			continue
		}
		byName[s.Name] = len(merged)
		merged = append(merged, s)
	}

	return &SelectorSet{Selectors: merged}
}

func mergeOptionSets(a, b *OptionSet) *OptionSet {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &OptionSet{Options: append(append([]Option{}, a.Options...), b.Options...)}
}
