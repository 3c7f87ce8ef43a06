// Package internal holds iterator helpers shared by the assembler and the CLI.
package internal

import (
	"iter"
)

// IterSeqConcat yields every value of each sequence in turn. Later sequences
// are not started until earlier ones are exhausted, so a lazy sequence (such
// as one reading a terminal) is only consumed on demand.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}

// IterSeq2Concat yields every pair of each sequence in turn. When used to
// build a map, pairs from later sequences override earlier ones.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}
