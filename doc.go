// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package canopy provides a hierarchical configuration tree that merges
// multiple sources, resolves embedded templates and exposes strongly typed
// access by absolute or relative path.
//
// A [Settings] is built from one or more [Source] values which are applied
// in order, last writer winning per top level key:
//
//	cfg := canopy.New()
//	err := cfg.AddSource(canopy.YamlFile("config.yaml"))
//	if err != nil {
//		return err
//	}
//	err = cfg.AddSource(canopy.FromEnvFile(".env"))
//	if err != nil {
//		return err
//	}
//
// String values may contain template placeholders of the form
// "${{ action:params }}" where action is one of env, file, config or yaml.
// Templates are expanded by an explicit, idempotent resolution pass:
//
//	err = cfg.ResolveTemplates()
//
// Values are addressed with dot separated paths. A path may also be given
// as a suffix of its absolute location, in which case the tree is searched
// for a unique match, optionally narrowed by glob-like masks:
//
//	dbURL, err := cfg.GetString("debug.db.url")
//	svcs, err := cfg.Resolve("services", "env.**")
//
// Subtrees convert to Go types through [To] and [Node.Decode], which use
// mapstructure with permissive scalar coercion.
package canopy
