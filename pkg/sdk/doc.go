// Package artwatch embeds the artwork similarity and interest-scoring engine
// in-process, over an in-memory, Redis/Valkey or SQLite backend.
//
//	client, _ := artwatch.New(ctx, artwatch.WithSQLite("./data"))
//	defer client.Close()
//
//	_ = client.PutFeatures(ctx, records)
//	similar, _ := client.Similar(ctx, "artwork-1", artwatch.SimilarOptions{Method: artwatch.MethodHybrid})
//	groups, _ := client.Duplicates(ctx, 5)
//
//	req, _ := client.Score(ctx, "artwork-1", results)
//	if req.HasInterestingResults {
//	    findings, _ := client.Findings(ctx, 0, 50)
//	}
package artwatch
