package cdc

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ring", func() {
	It("should round the capacity up to a power of two", func() {
		Expect(NewRing[int](5).Cap()).To(Equal(8))
		Expect(NewRing[int](8).Cap()).To(Equal(8))
		Expect(NewRing[int](1).Cap()).To(Equal(1))
	})

	It("should pop elements in push order", func() {
		ring := NewRing[int](4)

		for i := 0; i < 4; i++ {
			Expect(ring.Push(i)).To(BeTrue())
		}

		for i := 0; i < 4; i++ {
			v, ok := ring.Pop()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(i))
		}
	})

	It("should reject pushes when full", func() {
		ring := NewRing[int](2)

		Expect(ring.Push(1)).To(BeTrue())
		Expect(ring.Push(2)).To(BeTrue())
		Expect(ring.Push(3)).To(BeFalse())
		Expect(ring.Len()).To(Equal(2))
	})

	It("should report empty", func() {
		ring := NewRing[int](2)

		_, ok := ring.Pop()
		Expect(ok).To(BeFalse())

		ring.Push(1)
		ring.Pop()

		_, ok = ring.Pop()
		Expect(ok).To(BeFalse())
	})

	It("should wrap around", func() {
		ring := NewRing[int](2)

		for i := 0; i < 100; i++ {
			Expect(ring.Push(i)).To(BeTrue())
			v, ok := ring.Pop()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(i))
		}
	})

	It("should carry every element across goroutines", func() {
		const n = 100000
		ring := NewRing[int](64)

		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			defer wg.Done()
			for i := 0; i < n; {
				if ring.Push(i) {
					i++
				}
			}
		}()

		for i := 0; i < n; {
			v, ok := ring.Pop()
			if !ok {
				continue
			}

			Expect(v).To(Equal(i))
			i++
		}

		wg.Wait()
	})
})
