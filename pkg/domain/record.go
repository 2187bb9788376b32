package domain

// RecoveryRecord is the persisted shape of one stack entry.
type RecoveryRecord struct {
	Name       string `json:"name"`
	Param      string `json:"param"`
	Mode       int    `json:"mode"`
	IsReplaced bool   `json:"isReplaced,omitempty"`
}

// EntriesFromRecords converts recovery records into path entries awaiting lazy instantiation.
func EntriesFromRecords(records []RecoveryRecord) []PathEntry {
	entries := make([]PathEntry, 0, len(records))
	for _, r := range records {
		e := NewPathEntry(r.Name, r.Param)
		e.FromRecovery = true
		e.IsReplaced = r.IsReplaced
		e.RecoveredMode = Mode(r.Mode)
		entries = append(entries, e)
	}
	return entries
}
