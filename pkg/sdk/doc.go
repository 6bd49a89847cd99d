// Package govrecords embeds the government records search in a Go program.
//
// The client talks to the same remote index as the govrecords server
// (Meilisearch, or Redis/Valkey with the search module) and applies the
// same query parsing, facet filtering and result reconciliation.
//
//	client, _ := govrecords.New(ctx, govrecords.WithMeilisearch("http://localhost:7700", key))
//	defer client.Close()
//
//	res, _ := client.Query(`awardee:"ABC Corp" office furniture`).
//	    Area("Metro Manila", "Cebu").
//	    SortBy(govrecords.SortAmount).
//	    PageSize(50).
//	    Do(ctx)
//
// Loading data:
//
//	_ = client.EnsureIndex(ctx)
//	rep, _ := client.Import(ctx, f)
package govrecords
