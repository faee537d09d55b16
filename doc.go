// Package scanpack builds compressed, chunked file containers optimized
// for sequential bulk scanning by a downstream search tool.
//
// Files are grouped into size-bounded chunks. Each chunk is serialized
// into one contiguous payload (a fixed-width header array, then all
// names, then all contents), compressed as a single unit, and appended
// to the output stream behind a small chunk header. The container has
// no random-access index: a reader decompresses chunks in order and
// locates files through the offset/length pairs recorded in the header
// array. See the format subpackage for the exact wire layout.
//
// # Quick Start
//
// Pack files into an archive:
//
//	b, err := scanpack.CreateFile("corpus.spk")
//	if err != nil {
//	    return err
//	}
//	for _, path := range paths {
//	    data, _ := os.ReadFile(path)
//	    info, _ := os.Stat(path)
//	    err := b.Append(scanpack.File{
//	        Name:    path,
//	        Data:    data,
//	        Size:    uint64(info.Size()),
//	        ModTime: uint64(info.ModTime().Unix()),
//	    })
//	    if err != nil {
//	        return err
//	    }
//	}
//	if err := b.Close(); err != nil {
//	    return err
//	}
//
// The pipeline is strictly sequential: serialization, compression, and
// writing happen one chunk at a time on the caller's goroutine. A
// Builder is not safe for concurrent use.
package scanpack
