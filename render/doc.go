// Package render lowers a parsed markup tree to HTML using gomponents.
//
// Elements become tags named by [WithTag], attributes keep their order, and
// values are emitted as text nodes honoring their escape policy. Splices are
// evaluated against the environment given with [WithEnv]; their expression
// must implement [Evaluator].
package render
