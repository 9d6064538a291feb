package keyfob

import "github.com/avwilde/keyfob/internal/secitem"

// identityQuery builds the minimal attribute mapping that addresses one
// stored entry: the generic-password class tag, the service, and whichever
// optional attributes the item carries. Absent attributes are omitted
// entirely. The store distinguishes "attribute omitted" from "attribute
// present with empty value", so no empty placeholders.
func identityQuery(item Item) secitem.Query {
	q := secitem.Query{
		secitem.Class:   secitem.ClassGenericPassword,
		secitem.Service: item.Service,
	}
	if item.Account != "" {
		q[secitem.Account] = item.Account
	}
	if item.Comment != "" {
		q[secitem.Comment] = item.Comment
	}
	if item.Description != "" {
		q[secitem.Description] = item.Description
	}
	return q
}
