// Package highlight tokenizes code blocks into themed syntax trees.
// It uses the Chroma library to do this work.
//
// A [Tokenizer] holds the lexers and styles it was built with.
// Tokenizers are expensive to build, so a [Cache] shares one across
// render requests, building it lazily and extending it
// when a request needs a language or theme it doesn't have yet.
//
// Tokenized blocks are [hast.Tree] values carrying inline
// light-dark() colors for a pair of themes.
package highlight
