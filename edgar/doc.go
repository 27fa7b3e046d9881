// Package edgar retrieves SEC filings from the EDGAR archive.
//
// A filing is addressed by CIK and accession number, or by its master.idx
// filename ("edgar/data/{cik}/{accession}.txt"). The filing's document
// manifest comes from the index-headers.html file, which wraps the SGML
// submission header in a <pre> block; older filings predate that file, so
// the plain index.html table serves as a fallback. Fetched files are
// cached in a storage.Store so repeated runs do not hit sec.gov.
package edgar
