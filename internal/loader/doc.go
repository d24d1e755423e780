// Package loader builds rtnn models from exported weight files.
//
// Two formats are supported:
//   - RTNeural/Keras JSON: a full model description (layer types, sizes,
//     activations and weights) from which a complete nn.Model is built.
//   - SafeTensors: a PyTorch state dict whose tensors are copied into an
//     already constructed model, keyed by layer index ("0.weight",
//     "2.weight_ih_l0", ...).
//
// Weight layouts are converted on load to the row-major layouts of package
// nn, so no conversion happens at inference time.
//
// Example:
//
//	model, err := loader.LoadJSONFile[float32]("models/gru.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model.Reset()
//	y := model.Forward([]float32{x})
package loader
