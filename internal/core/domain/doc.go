// Package domain holds the types shared by every layer of docchat:
// documents and their chunks, ranked and packed context, chat requests and
// replies, stored conversations, settings and the error sentinels.
//
// It imports only the standard library.
package domain
