// Package evidence turns compliance evidence documents (policies, model
// cards, audit reports) into plain text for gap analysis. HTML is reduced to
// its main content and converted to markdown; markdown and text pass through.
package evidence
