Static analysis:
  (none)
Rule compliance:
  (none)
`
		assert.Equal(t, want, (&prscope.DefaultFormatter{}).Format(report))
	})
}
