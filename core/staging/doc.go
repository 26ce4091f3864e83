// Package staging keeps uploaded snapshot files until the user resets the session.
//
// Two backends implement Store: LocalStore writes into a directory (through afero,
// so tests run against an in-memory filesystem) and BucketStore keeps objects
// under a prefix of an S3/MinIO bucket via core/storage.
//
// File names are reduced to their base name; hidden names are rejected.
package staging
