// Package core contains the canonical lead ingestion domain: field coercion,
// mapping resolution, attribution get-or-create, lead assembly, and the
// paginated walk that ties them together. Transport and storage adapters must
// depend on this package; core must not depend on them.
package core
