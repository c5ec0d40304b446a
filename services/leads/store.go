package leads

import (
	"context"

	"muafin_web_go/models"
	"muafin_web_go/services/supabase"
)

// SupabaseStore writes leads into a Supabase table
type SupabaseStore struct {
	client *supabase.Client
	table  string
}

// NewSupabaseStore creates a store writing into table. An empty table name
// uses models.LeadsTable.
func NewSupabaseStore(client *supabase.Client, table string) *SupabaseStore {
	if table == "" {
		table = models.LeadsTable
	}
	return &SupabaseStore{client: client, table: table}
}

// InsertLead inserts lead as a one-row batch
func (s *SupabaseStore) InsertLead(ctx context.Context, lead *models.LeadSubmission) error {
	return s.client.Insert(ctx, s.table, []*models.LeadSubmission{lead})
}
