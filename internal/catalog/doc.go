// Package catalog загружает начальный каталог шагов и правила автодобавления.
//
// Формат — YAML:
//
//	steps:
//	  - id: corte
//	    name: Corte
//	    sector: Serralheria
//	    profile:
//	      kind: size_tiered
//	      tiers:
//	        - {min: 1, max: 3.9, setup: 2, operation: 1.5}
//	rules:
//	  - trigger: plasma
//	    mounting: flanged
//	    implied: [soldagem_base, acabamento]
//
// Каталог по умолчанию встроен в бинарник (default_catalog.yaml).
package catalog
