// Package aitable implements the ingestion pipeline that turns AI-generated
// JSON into stored widget sidebar tables.
//
// The pipeline has three stages: validation of the raw JSON against the
// expected table document shape, parsing of the validated text into a typed
// table, and persistence of the typed table through a TableStore. A prompt
// generator produces the instruction document that is sent to an external AI
// to obtain the JSON in the first place, and a column type detector offers
// opt-in URL/sensitive classification for callers that want it.
//
// Typical usage:
//
//	st, err := store.Open(ctx, "sidebar.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	manager := aitable.NewManager(st)
//
//	result := aitable.ValidateJSON(jsonText)
//	if !result.IsValid {
//		// show result.Errors to the user and let them retry
//	}
//
//	table, errs := aitable.ParseJSON(jsonText)
//	if len(errs) > 0 {
//		// show errs
//	}
//
//	outcome := manager.CreateTableFromAI(ctx, table)
//
// The validator and parser never panic past their boundary and never return
// partial results: every failure path is reported as a list of human-readable
// messages for the caller to display.
package aitable
