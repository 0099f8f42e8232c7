// Package manifest loads a route forest from a JSON document, either a
// local file or an S3 object. A manifest names routes, paths,
// forwarding, and default params; guard and codec factories cannot be
// serialized and must be attached to the decoded tree.RouteDef values
// by name after loading.
package manifest
