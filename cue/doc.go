// Package cue is a registry of versioned prompt templates.
//
// Every edit to a prompt creates a new immutable version in its (project, task)
// lineage, linked to the version it came from. Aliases, tags, meta and the
// soft-delete marker are the only fields changed in place. The Registry runs
// each operation as one transaction against a Store, so concurrent callers
// never observe or produce a half-applied change.
//
// Usage:
//
//	store := storage.New(conn, log)
//	reg := cue.New(store, log)
//
//	v1, err := reg.Register(ctx, types.RegisterInput{
//	    Project:  "support",
//	    Task:     "reply",
//	    Template: "Reply to {ticket}",
//	})
//	v2, err := reg.Update(ctx, v1.PromptID, types.UpdateInput{Template: "Reply politely to {ticket}"})
//	_, err = reg.SetAlias(ctx, v2.PromptID, "reply-prod", true)
//
// Errors carry one of the kinds in package errors: not found, conflict,
// validation or store.
package cue
