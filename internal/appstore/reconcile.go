package appstore

import (
	"sort"

	"github.com/kapu/localization-connect-go/internal/domain"
)

// Reconcile plans one entry per desired locale: update when the locale
// already exists remotely, create-then-update otherwise. Only fields that are
// both requested and present locally are written. It performs no I/O.
func Reconcile(desired domain.DesiredState, existing map[string]string, fields domain.FieldSet) []domain.SyncPlanEntry {
	codes := make([]string, 0, len(desired))
	for code := range desired {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	plan := make([]domain.SyncPlanEntry, 0, len(codes))
	for _, code := range codes {
		toWrite := make(map[domain.FieldKey]string)
		for key, value := range desired[code] {
			if fields.Has(key) {
				toWrite[key] = value
			}
		}

		entry := domain.SyncPlanEntry{
			LocaleCode:    code,
			Action:        domain.SyncCreateThenUpdate,
			FieldsToWrite: toWrite,
		}
		if remoteID, ok := existing[code]; ok {
			entry.Action = domain.SyncUpdate
			entry.RemoteID = remoteID
		}
		plan = append(plan, entry)
	}
	return plan
}
