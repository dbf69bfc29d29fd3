package model

import "github.com/YuminosukeSato/regfit/dataset"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルをデータセットで学習させる
	Fit(ds *dataset.Dataset) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は単一の入力に対する予測を行う
	Predict(x float64) (float64, error)
	// PredictBatch は複数の入力に対する予測を順序どおりに返す
	PredictBatch(xs []float64) ([]float64, error)
}

// Scorer は決定係数を計算できるモデルのインターフェース
type Scorer interface {
	// Score はデータセットに対する決定係数（R²）を返す
	Score(ds *dataset.Dataset) (float64, error)
}

// Regressor は一変数回帰モデルの基本インターフェース
type Regressor interface {
	Fitter
	Predictor
	Scorer
	IsFitted() bool
	GetParams() map[string]interface{}
}
