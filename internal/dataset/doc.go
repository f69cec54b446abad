// Package dataset loads and prepares the online shoppers intention data.
//
// Preparation turns every session into a mixed-type feature record:
//
//   - the six page-count and duration columns are z-scored with the
//     population standard deviation (a constant column becomes all zeros);
//   - SpecialDay becomes a boolean (true when the closeness score is > 0);
//   - Month, Weekend and SpecialDay are one-hot encoded. Indicator columns
//     are named Column_Value and ordered by value.
//
// Quantitative columns come first, followed by the indicator blocks.
package dataset
