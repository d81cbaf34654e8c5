package domain

import "sort"

type Platform string

const (
	PlatformIOS   Platform = "IOS"
	PlatformMacOS Platform = "MAC_OS"
)

func (p Platform) String() string {
	return string(p)
}

// AppVersion is an App Store version as reported by App Store Connect.
type AppVersion struct {
	ID            string
	VersionString string
	State         string
}

// RemoteLocalizationRecord is authoritative remote state. It is fetched
// fresh on every sync run.
type RemoteLocalizationRecord struct {
	RemoteID      string
	LocaleCode    string
	CurrentFields map[FieldKey]string
}

type SyncAction string

const (
	SyncCreateThenUpdate SyncAction = "create_then_update"
	SyncUpdate           SyncAction = "update"
)

// SyncPlanEntry lives only for the duration of one sync invocation.
type SyncPlanEntry struct {
	LocaleCode    string
	Action        SyncAction
	RemoteID      string
	FieldsToWrite map[FieldKey]string
}

// SortedFields returns the keys of FieldsToWrite in AllFields order.
func (e SyncPlanEntry) SortedFields() []FieldKey {
	return SortFields(e.FieldsToWrite)
}

type SyncOutcome struct {
	LocaleCode string
	Action     SyncAction
	RemoteID   string
	Fields     []FieldKey
	Err        error
}

func (o SyncOutcome) OK() bool {
	return o.Err == nil
}

// DesiredState maps locale code to the field content that should be live.
type DesiredState map[string]map[FieldKey]string

// FieldSet is the requested subset of fields for a sync.
type FieldSet map[FieldKey]struct{}

func NewFieldSet(keys ...FieldKey) FieldSet {
	set := make(FieldSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func (s FieldSet) Has(key FieldKey) bool {
	_, ok := s[key]
	return ok
}

func (s FieldSet) Keys() []FieldKey {
	out := make([]FieldKey, 0, len(s))
	for _, k := range AllFields {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// SortFields orders map keys by AllFields, dropping unknown keys last.
func SortFields[V any](m map[FieldKey]V) []FieldKey {
	out := make([]FieldKey, 0, len(m))
	for _, k := range AllFields {
		if _, ok := m[k]; ok {
			out = append(out, k)
		}
	}
	extra := make([]FieldKey, 0)
	for k := range m {
		if !k.IsValid() {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
