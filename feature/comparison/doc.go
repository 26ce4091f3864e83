// Package comparison exposes snapshot comparison over HTTP.
//
// The Service ties the staging area, the dataset loader, the reconciler and the
// session store together. Each request belongs to a session identified by the
// X-Session-ID header; a fresh id is generated and echoed back when absent.
//
// # Routes
//
//	POST   /comparison/uploads         stage a snapshot file (multipart "file")
//	GET    /comparison/uploads         list staged snapshots
//	POST   /comparison/compare         compare two staged snapshots
//	POST   /comparison/compare/inline  compare two datasets sent in the body
//	GET    /comparison/results         latest result of the session
//	GET    /comparison/export          latest result as an xlsx workbook
//	DELETE /comparison/session         forget the session and purge staging
package comparison
