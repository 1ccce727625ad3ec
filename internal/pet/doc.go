// Package pet turns emotion images into terminal frames.
//
// Each emotion maps to an image file in the asset directory. Images are
// decoded (PNG, JPEG, GIF first frame, WebP), scaled to fit the configured
// box and converted to character art. A missing or undecodable image is
// logged and replaced by a placeholder frame; it never stops the program.
// Without an asset directory the built-in art is used.
package pet
