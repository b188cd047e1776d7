// Package domain contains the entities shared by the service layers: users
// and the asynchronous calculations they request. The types carry no
// infrastructure concerns so storage, worker and transport can all use them.
package domain
