// Package config loads suite files: ordered lists of requests, each with
// the expectations the builder should check and optional follow-up checks.
//
// Suite files are YAML (.yaml, .yml) or JSON (.json):
//
//	name: users
//	baseUri: http://localhost:8080
//	variables:
//	  token: secret
//	requests:
//	  - name: create user
//	    method: POST
//	    uri: /users
//	    body:
//	      name: alice
//	    expect:
//	      status: 201
//	      time: 500ms
//	    extract:
//	      userId: $.id
//	  - name: fetch user
//	    method: GET
//	    uri: /users/{{userId}}
//	    headers:
//	      Authorization: Bearer {{token}}
//	    expect:
//	      status: 200
//	      schema: schemas/user.json
//
// Placeholders of the form {{name}} are replaced from the suite variables
// and from values extracted by earlier requests.
package config
