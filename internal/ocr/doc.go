// Package ocr reads the captions of detected UI elements with Tesseract
// (via gosseract/v2), so a report can say which button was found and not
// only where.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Other languages use their Tesseract codes, e.g. "deu" or "chi_sim".
//
// # Performance
//
// Each region is cropped and read separately, reusing one Tesseract
// client per call. Reading captions is much slower than detection itself,
// so it only runs when asked for.
package ocr
