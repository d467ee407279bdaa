// Package packed implements bit-exact packed views of IR values.
//
// The packed layout has no headers and no padding. Within a Bits leaf bit 0
// is the least significant bit of the first byte. Array element 0 occupies
// the least significant bits of the array. Tuple elements are laid out in
// reverse declaration order, so the last declared element occupies the
// least significant bits.
//
// For the tuple (bits[1], bits[8], bits[23]) the bits[23] element is at
// offset 0, the bits[8] element at offset 23 and the bits[1] element at
// offset 31.
package packed
