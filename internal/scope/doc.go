// Package scope implements the crawl eligibility policy: exact domain
// matching, optional path-prefix containment, and an extension-based
// heuristic for identifying HTML documents.
package scope
