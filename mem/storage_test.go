package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var storage *Storage

	BeforeEach(func() {
		storage = NewStorage(1 * MB)
	})

	It("should write and read back", func() {
		err := storage.Write(0x1000, []byte{1, 2, 3, 4})
		Expect(err).To(BeNil())

		data, err := storage.Read(0x1000, 4)
		Expect(err).To(BeNil())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read zeros from untouched regions", func() {
		data, err := storage.Read(0x2000, 4)
		Expect(err).To(BeNil())
		Expect(data).To(Equal([]byte{0, 0, 0, 0}))
	})

	It("should write and read across unit boundaries", func() {
		payload := make([]byte, 8192)
		for i := range payload {
			payload[i] = byte(i % 251)
		}

		err := storage.Write(4000, payload)
		Expect(err).To(BeNil())

		data, err := storage.Read(4000, 8192)
		Expect(err).To(BeNil())
		Expect(data).To(Equal(payload))
	})

	It("should reject access beyond the capacity", func() {
		err := storage.Write(1*MB+1, []byte{1})
		Expect(err).NotTo(BeNil())

		_, err = storage.Read(1*MB+1, 1)
		Expect(err).NotTo(BeNil())
	})
})
