package ints

import "testing"

var sink uint64

func BenchmarkFindLinebreak64(b *testing.B) {
	w := Load64([]byte("462\n7890"))
	for i := 0; i < b.N; i++ {
		k, _ := FindLinebreak64(w + uint64(i&1))
		sink += uint64(k)
	}
}

func BenchmarkParsePackedDigits64(b *testing.B) {
	w := Load64([]byte("12345678"))
	for i := 0; i < b.N; i++ {
		sink += ParsePackedDigits64(w, 1+i&7)
	}
}

func BenchmarkParsePackedDigits32(b *testing.B) {
	w := Load32([]byte("0062"))
	for i := 0; i < b.N; i++ {
		sink += uint64(ParsePackedDigits32(w, 1+i&3))
	}
}
